package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yogapermana/accountd/internal/application"
	"github.com/yogapermana/accountd/internal/domain/entity"
	"github.com/yogapermana/accountd/pkg/helpers"
	"github.com/yogapermana/accountd/pkg/response"
	"github.com/yogapermana/accountd/pkg/validation"
)

// AccountHandler is the external caller glue in front of the directory.
// Password hashing happens here, before anything reaches the core.
type AccountHandler struct {
	Directory *application.Directory
	Logger    *logrus.Logger
}

func NewAccountHandler(dir *application.Directory, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Directory: dir, Logger: logger}
}

type SignupRequest struct {
	Username    string `json:"username" binding:"required,alphanum,min=3,max=32"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required,max=64"`
	Password    string `json:"password" binding:"required,min=8"`
	Locale      string `json:"locale"`
}

type SignupResponse struct {
	Username string `json:"username"`
}

func (h *AccountHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}

	hash, err := helpers.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "signup failed", nil))
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = c.GetHeader("Accept-Language")
	}

	acct := entity.NewUserAccount(req.Username, req.Email, req.DisplayName, hash, "", "ROLE_USER", helpers.NewActivationKey())
	if err := h.Directory.CreateAccount(c.Request.Context(), acct, locale); err != nil {
		if errors.Is(err, application.ErrDuplicateAccount) {
			c.JSON(http.StatusConflict, response.Error[any](c, http.StatusConflict, "username already taken", nil))
			return
		}
		h.Logger.WithError(err).WithField("username", req.Username).Error("signup failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "signup failed", nil))
		return
	}

	c.JSON(http.StatusCreated, response.Success(c, http.StatusCreated, SignupResponse{Username: acct.Username}, "account created"))
}

func (h *AccountHandler) Activate(c *gin.Context) {
	key := c.Param("key")
	activated, err := h.Directory.Activate(c.Request.Context(), key)
	if err != nil {
		h.Logger.WithError(err).Error("activation failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "activation failed", nil))
		return
	}
	if !activated {
		c.JSON(http.StatusNotFound, response.Error[any](c, http.StatusNotFound, "activation key not valid", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success[any](c, http.StatusOK, nil, "account activated"))
}

type ActivationEmailStatus struct {
	Username string `json:"username"`
	Sent     bool   `json:"sent"`
}

func (h *AccountHandler) ActivationEmailSent(c *gin.Context) {
	username := c.Param("username")
	sent, err := h.Directory.IsActivationEmailSent(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, application.ErrSubjectNotFound) {
			c.JSON(http.StatusNotFound, response.Error[any](c, http.StatusNotFound, "account not found", nil))
			return
		}
		h.Logger.WithError(err).WithField("username", username).Error("activation email status lookup failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, ActivationEmailStatus{Username: username, Sent: sent}, ""))
}
