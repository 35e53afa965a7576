package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/service/employees"
)

// EmployeeHandler exposes employee profiles over HTTP.
type EmployeeHandler struct {
	svc    *employees.Service
	logger *zap.Logger
}

// NewEmployeeHandler constructs the HTTP handler adapter.
func NewEmployeeHandler(svc *employees.Service, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{svc: svc, logger: logger}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	emp, err := h.svc.Create(c.Request.Context(), row)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": emp})
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := employeeID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	row, err := bindRow(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	emp, err := h.svc.Update(c.Request.Context(), id, row)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": emp})
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := employeeID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) DeleteAll(c *gin.Context) {
	if err := h.svc.DeleteAll(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) ImportWorkbook(c *gin.Context) {
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

	list, err := h.svc.ImportWorkbook(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(list), "data": list})
}

func (h *EmployeeHandler) ImportSheet(c *gin.Context) {
	sheet, err := sheetName(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	list, err := h.svc.ImportSheet(c.Request.Context(), sheet)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(list), "data": list})
}

func employeeID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, models.Invalid("invalid employee id %q", c.Param("id"))
	}
	return id, nil
}
