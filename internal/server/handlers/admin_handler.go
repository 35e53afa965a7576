package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/auth"
)

// AdminHandler checks admin credentials for the login form.
type AdminHandler struct {
	verifier auth.Verifier
	logger   *zap.Logger
}

// NewAdminHandler constructs the HTTP handler adapter.
func NewAdminHandler(verifier auth.Verifier, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{verifier: verifier, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login answers whether the submitted credential is the admin's.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if !h.verifier.Verify(req.Username, req.Password) {
		h.logger.Warn("admin login rejected", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": req.Username})
}
