package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/service/operations"
)

// uploadField is the multipart field carrying an .xlsx import file.
const uploadField = "file"

// OperationalHandler exposes daily production logs over HTTP.
type OperationalHandler struct {
	svc    *operations.Service
	logger *zap.Logger
}

// NewOperationalHandler constructs the HTTP handler adapter.
func NewOperationalHandler(svc *operations.Service, logger *zap.Logger) *OperationalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OperationalHandler{svc: svc, logger: logger}
}

// List returns every record, newest first.
func (h *OperationalHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// Create stores a manually entered day.
func (h *OperationalHandler) Create(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), row)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rec})
}

// Update recomputes the day stored under :date.
func (h *OperationalHandler) Update(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), c.Param("date"), row)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (h *OperationalHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("date")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OperationalHandler) DeleteAll(c *gin.Context) {
	if err := h.svc.DeleteAll(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportWorkbook imports an uploaded .xlsx file.
func (h *OperationalHandler) ImportWorkbook(c *gin.Context) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		respondError(c, h.logger, models.Invalid("missing upload field %q", uploadField))
		return
	}
	file, err := fh.Open()
	if err != nil {
		respondError(c, h.logger, models.Invalid("unreadable upload: %v", err))
		return
	}
	defer file.Close()

	records, err := h.svc.ImportWorkbook(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(records), "data": records})
}

// ImportSheet imports a tab of the configured Google spreadsheet.
func (h *OperationalHandler) ImportSheet(c *gin.Context) {
	sheet, err := sheetName(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	records, err := h.svc.ImportSheet(c.Request.Context(), sheet)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(records), "data": records})
}
