package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/service/reporting"
	"github.com/bbag/minedash/internal/spreadsheet"
)

// TransferHandler serves workbook downloads and the Google Sheets export.
type TransferHandler struct {
	svc    *reporting.Service
	sheets reporting.TableWriter
	logger *zap.Logger
}

// NewTransferHandler constructs the HTTP handler adapter. sheets may be nil.
func NewTransferHandler(svc *reporting.Service, sheets reporting.TableWriter, logger *zap.Logger) *TransferHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferHandler{svc: svc, sheets: sheets, logger: logger}
}

// Backup downloads both collections as one workbook.
func (h *TransferHandler) Backup(c *gin.Context) {
	buf, err := h.svc.Backup(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	name := fmt.Sprintf("backup_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	attachment(c, name, buf.Bytes())
}

// Template downloads the import template for :kind.
func (h *TransferHandler) Template(c *gin.Context) {
	buf, name, err := spreadsheet.Template(c.Param("kind"))
	if errors.Is(err, spreadsheet.ErrUnknownTemplate) {
		respondError(c, h.logger, models.Invalid("unknown template %q, expected %s or %s",
			c.Param("kind"), spreadsheet.KindOperational, spreadsheet.KindEmployees))
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	attachment(c, name, buf.Bytes())
}

// ExportSheets writes both collections to the configured spreadsheet.
func (h *TransferHandler) ExportSheets(c *gin.Context) {
	if err := h.svc.ExportSheets(c.Request.Context(), h.sheets); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "exported"})
}

func attachment(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, spreadsheet.ContentType, data)
}
