package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/service/reporting"
)

// DashboardHandler serves the production and HR dashboards.
type DashboardHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *reporting.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Operational returns KPIs, charts and recent entries for ?startDate=&endDate=.
func (h *DashboardHandler) Operational(c *gin.Context) {
	var rng reporting.DateRange
	if err := c.ShouldBindQuery(&rng); err != nil {
		respondError(c, h.logger, models.Invalid("invalid query: %v", err))
		return
	}

	dash, err := h.svc.OperationalDashboard(c.Request.Context(), rng)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Employees returns workforce KPIs and the employees matching ?search=&status=.
func (h *DashboardHandler) Employees(c *gin.Context) {
	dash, err := h.svc.EmployeeDashboard(c.Request.Context(), c.Query("search"), c.DefaultQuery("status", reporting.StatusAll))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
