package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
)

// respondError maps a service error onto an HTTP status and JSON body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr  *models.ValidationError
		externalErr    *models.ExternalServiceError
		persistenceErr *models.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Msg})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrSheetsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &externalErr):
		logger.Warn("external service failure", zap.String("kind", string(externalErr.Kind)), zap.Error(err))
		status := http.StatusBadGateway
		if externalErr.Kind == models.ExternalConfig {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": externalErr.UserMessage(), "kind": externalErr.Kind})
	case errors.As(err, &persistenceErr):
		logger.Error("storage failure", zap.String("op", persistenceErr.Op), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": persistenceErr.Error()})
	default:
		logger.Error("unexpected failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindRow decodes a JSON object request body into a row.
func bindRow(c *gin.Context) (models.Row, error) {
	var row models.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		return nil, models.Invalid("invalid request body: %v", err)
	}
	if row == nil {
		row = models.Row{}
	}
	return row, nil
}

type sheetRequest struct {
	Sheet string `json:"sheet"`
}

// sheetName reads an optional {"sheet": "..."} body.
func sheetName(c *gin.Context) (string, error) {
	if c.Request.ContentLength == 0 {
		return "", nil
	}
	var req sheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", models.Invalid("invalid request body: %v", err)
	}
	return req.Sheet, nil
}
