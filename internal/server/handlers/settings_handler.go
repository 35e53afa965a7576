package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/repository"
)

const logoPrefix = "data:image/"

// SettingsHandler serves client settings such as the company logo.
type SettingsHandler struct {
	store  repository.SettingsStore
	logger *zap.Logger
}

// NewSettingsHandler constructs the HTTP handler adapter.
func NewSettingsHandler(store repository.SettingsStore, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{store: store, logger: logger}
}

// GetLogo returns the stored logo data URL, empty when none was uploaded.
func (h *SettingsHandler) GetLogo(c *gin.Context) {
	logo, err := h.store.GetSetting(c.Request.Context(), repository.LogoKey)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		respondError(c, h.logger, models.Persistence("get logo", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo": logo})
}

type logoRequest struct {
	Logo string `json:"logo" binding:"required"`
}

// PutLogo stores a new logo given as an image data URL.
func (h *SettingsHandler) PutLogo(c *gin.Context) {
	var req logoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, models.Invalid("logo is required"))
		return
	}
	if !strings.HasPrefix(req.Logo, logoPrefix) {
		respondError(c, h.logger, models.Invalid("logo must be an image data URL"))
		return
	}

	if err := h.store.PutSetting(c.Request.Context(), repository.LogoKey, req.Logo); err != nil {
		respondError(c, h.logger, models.Persistence("put logo", err))
		return
	}
	h.logger.Info("company logo updated", zap.Int("bytes", len(req.Logo)))
	c.JSON(http.StatusOK, gin.H{"logo": req.Logo})
}
