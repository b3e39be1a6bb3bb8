package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fee-api/internal/dto"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
	"github.com/noah-isme/sma-fee-api/pkg/response"
)

type dashboardService interface {
	Snapshot(ctx context.Context, academicYear string) (*dto.FinancialSnapshot, error)
}

// DashboardHandler wires the financial dashboard to HTTP.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Snapshot godoc
// @Summary Fleet-wide financial snapshot
// @Tags Dashboard
// @Produce json
// @Param academicYear query string true "Academic year (e.g. 2025-2026)"
// @Success 200 {object} response.Envelope
// @Router /finance/dashboard [get]
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	academicYear := strings.TrimSpace(c.Query("academicYear"))
	if academicYear == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "academicYear is required"))
		return
	}
	snapshot, err := h.service.Snapshot(c.Request.Context(), academicYear)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
