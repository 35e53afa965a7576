package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/service/analysis"
	"github.com/bbag/minedash/internal/service/reporting"
)

// AnalysisHandler runs and serves AI production analyses.
type AnalysisHandler struct {
	svc    *analysis.Service
	logger *zap.Logger
}

// NewAnalysisHandler constructs the HTTP handler adapter.
func NewAnalysisHandler(svc *analysis.Service, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{svc: svc, logger: logger}
}

// Run analyses the records in the optional {"startDate","endDate"} body.
func (h *AnalysisHandler) Run(c *gin.Context) {
	var rng reporting.DateRange
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&rng); err != nil {
			respondError(c, h.logger, models.Invalid("invalid request body: %v", err))
			return
		}
	}

	report, err := h.svc.Run(c.Request.Context(), rng, models.SourceManual)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Latest returns the most recent stored analysis.
func (h *AnalysisHandler) Latest(c *gin.Context) {
	report, err := h.svc.Latest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
