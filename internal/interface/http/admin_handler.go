package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yogapermana/accountd/internal/application"
	"github.com/yogapermana/accountd/pkg/response"
)

// AdminHandler exposes the thin administrative surface: a full cache flush
// and account search. No authentication-specific logic lives here.
type AdminHandler struct {
	Directory *application.Directory
	Logger    *logrus.Logger
}

func NewAdminHandler(dir *application.Directory, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Directory: dir, Logger: logger}
}

func (h *AdminHandler) FlushCache(c *gin.Context) {
	if err := h.Directory.FlushCache(c.Request.Context()); err != nil {
		h.Logger.WithError(err).Error("cache flush failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "cache flush failed", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success[any](c, http.StatusOK, nil, "cache flushed"))
}

func (h *AdminHandler) SearchAccounts(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Directory.SearchAccounts(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("account search failed")
		c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "search failed", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, hits, ""))
}
