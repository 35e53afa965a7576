package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/auth"
	"github.com/bbag/minedash/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups every HTTP handler adapter the router mounts.
type Handlers struct {
	Operational *handlers.OperationalHandler
	Employees   *handlers.EmployeeHandler
	Dashboard   *handlers.DashboardHandler
	Analysis    *handlers.AnalysisHandler
	Admin       *handlers.AdminHandler
	Transfer    *handlers.TransferHandler
	Settings    *handlers.SettingsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, verifier auth.Verifier, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/dashboard/operational", h.Dashboard.Operational)
	api.GET("/dashboard/employees", h.Dashboard.Employees)
	api.GET("/operational", h.Operational.List)
	api.GET("/employees", h.Employees.List)
	api.POST("/analysis", h.Analysis.Run)
	api.GET("/analysis/latest", h.Analysis.Latest)
	api.GET("/settings/logo", h.Settings.GetLogo)
	api.POST("/admin/login", h.Admin.Login)

	admin := api.Group("/admin", auth.BasicAuth(verifier, logger))

	admin.POST("/operational", h.Operational.Create)
	admin.PUT("/operational/:date", h.Operational.Update)
	admin.DELETE("/operational/:date", h.Operational.Delete)
	admin.DELETE("/operational", h.Operational.DeleteAll)
	admin.POST("/operational/import", h.Operational.ImportWorkbook)
	admin.POST("/operational/import/sheets", h.Operational.ImportSheet)

	admin.POST("/employees", h.Employees.Create)
	admin.PUT("/employees/:id", h.Employees.Update)
	admin.DELETE("/employees/:id", h.Employees.Delete)
	admin.DELETE("/employees", h.Employees.DeleteAll)
	admin.POST("/employees/import", h.Employees.ImportWorkbook)
	admin.POST("/employees/import/sheets", h.Employees.ImportSheet)

	admin.GET("/export/backup", h.Transfer.Backup)
	admin.GET("/export/template/:kind", h.Transfer.Template)
	admin.POST("/export/sheets", h.Transfer.ExportSheets)
	admin.PUT("/settings/logo", h.Settings.PutLogo)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
