package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yogapermana/accountd/internal/application"
	"github.com/yogapermana/accountd/pkg/response"
	"github.com/yogapermana/accountd/pkg/validation"
)

// AuthHandler exposes the directory's produced interface to the external
// authentication layer: the authorization view and the remember-me token
// lifecycle.
type AuthHandler struct {
	Auth       *application.Authenticator
	RememberMe *application.RememberMe
	Logger     *logrus.Logger
}

func NewAuthHandler(auth *application.Authenticator, rememberMe *application.RememberMe, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, RememberMe: rememberMe, Logger: logger}
}

type AuthorizationViewResponse struct {
	Username              string   `json:"username"`
	Email                 string   `json:"email"`
	DisplayName           string   `json:"display_name"`
	PasswordHash          string   `json:"password_hash"`
	PasswordSalt          string   `json:"password_salt,omitempty"`
	Enabled               bool     `json:"enabled"`
	AccountNonExpired     bool     `json:"account_non_expired"`
	CredentialsNonExpired bool     `json:"credentials_non_expired"`
	AccountNonLocked      bool     `json:"account_non_locked"`
	Authorities           []string `json:"authorities"`
}

func (h *AuthHandler) LoadUser(c *gin.Context) {
	username := c.Param("username")
	view, err := h.Auth.LoadUserByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, application.ErrSubjectNotFound) {
			c.JSON(http.StatusNotFound, response.Error[any](c, http.StatusNotFound, "unknown subject", nil))
			return
		}
		h.Logger.WithError(err).WithField("username", username).Error("authorization view lookup failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, AuthorizationViewResponse{
		Username:              view.Username,
		Email:                 view.Email,
		DisplayName:           view.DisplayName,
		PasswordHash:          view.PasswordHash,
		PasswordSalt:          view.PasswordSalt,
		Enabled:               view.Enabled,
		AccountNonExpired:     view.AccountNonExpired,
		CredentialsNonExpired: view.CredentialsNonExpired,
		AccountNonLocked:      view.AccountNonLocked,
		Authorities:           view.Authorities,
	}, ""))
}

type CreateTokenRequest struct {
	Username string    `json:"username" binding:"required"`
	Series   string    `json:"series" binding:"required"`
	Token    string    `json:"token" binding:"required"`
	IssuedAt time.Time `json:"issued_at"`
}

func (h *AuthHandler) CreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	if req.IssuedAt.IsZero() {
		req.IssuedAt = time.Now().UTC()
	}
	// Create is fire-and-forget: a failed store commit means the login
	// simply was not remembered.
	h.RememberMe.CreateToken(c.Request.Context(), req.Username, req.Series, req.Token, req.IssuedAt)
	c.JSON(http.StatusAccepted, response.Success[any](c, http.StatusAccepted, nil, "token accepted"))
}

type TokenResponse struct {
	Username string    `json:"username"`
	Series   string    `json:"series"`
	Token    string    `json:"token"`
	LastUsed time.Time `json:"last_used"`
}

func (h *AuthHandler) LookupToken(c *gin.Context) {
	series := c.Param("series")
	l, err := h.RememberMe.LookupBySeries(c.Request.Context(), series)
	if err != nil {
		if errors.Is(err, application.ErrLoginNotFound) {
			c.JSON(http.StatusNotFound, response.Error[any](c, http.StatusNotFound, "not remembered", nil))
			return
		}
		h.Logger.WithError(err).WithField("series", series).Error("token lookup failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, TokenResponse{
		Username: l.Username,
		Series:   l.Series,
		Token:    l.Token,
		LastUsed: l.LastUsed,
	}, ""))
}

type RotateTokenRequest struct {
	Token  string    `json:"token" binding:"required"`
	UsedAt time.Time `json:"used_at"`
}

func (h *AuthHandler) RotateToken(c *gin.Context) {
	series := c.Param("series")
	var req RotateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	if req.UsedAt.IsZero() {
		req.UsedAt = time.Now().UTC()
	}
	// Rotation of an unknown series is a deliberate no-op.
	h.RememberMe.RotateToken(c.Request.Context(), series, req.Token, req.UsedAt)
	c.JSON(http.StatusAccepted, response.Success[any](c, http.StatusAccepted, nil, "rotation accepted"))
}

func (h *AuthHandler) RevokeTokens(c *gin.Context) {
	username := c.Param("username")
	if err := h.RememberMe.RevokeAll(c.Request.Context(), username); err != nil {
		h.Logger.WithError(err).WithField("username", username).Error("token revocation failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "revocation failed", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success[any](c, http.StatusOK, nil, "tokens revoked"))
}

func (h *AuthHandler) ListTokens(c *gin.Context) {
	username := c.Param("username")
	logins, err := h.RememberMe.LoginsForUser(c.Request.Context(), username)
	if err != nil {
		h.Logger.WithError(err).WithField("username", username).Error("token listing failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "listing failed", nil))
		return
	}
	out := make([]TokenResponse, 0, len(logins))
	for _, l := range logins {
		out = append(out, TokenResponse{Username: l.Username, Series: l.Series, Token: l.Token, LastUsed: l.LastUsed})
	}
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, out, ""))
}
