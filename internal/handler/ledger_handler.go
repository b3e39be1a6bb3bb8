package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
	"github.com/noah-isme/sma-fee-api/pkg/response"
)

type ledgerService interface {
	BuildLedger(ctx context.Context, studentID, academicYear string) (*models.StudentLedger, error)
	FeeProfile(ctx context.Context, studentID, academicYear string) (*models.FeeProfile, error)
}

// LedgerHandler exposes derived ledger endpoints.
type LedgerHandler struct {
	service ledgerService
}

// NewLedgerHandler constructs the handler.
func NewLedgerHandler(service ledgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Ledger godoc
// @Summary Twelve-month fee ledger for a student
// @Tags Finance
// @Produce json
// @Param id path string true "Student ID"
// @Param academicYear query string true "Academic year (e.g. 2025-2026)"
// @Success 200 {object} response.Envelope
// @Router /finance/students/{id}/ledger [get]
func (h *LedgerHandler) Ledger(c *gin.Context) {
	academicYear := strings.TrimSpace(c.Query("academicYear"))
	if academicYear == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "academicYear is required"))
		return
	}
	ledger, err := h.service.BuildLedger(c.Request.Context(), c.Param("id"), academicYear)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ledger, nil)
}

// FeeProfile godoc
// @Summary Resolved fee profile for a student
// @Tags Finance
// @Produce json
// @Param id path string true "Student ID"
// @Param academicYear query string true "Academic year (e.g. 2025-2026)"
// @Success 200 {object} response.Envelope
// @Router /finance/students/{id}/fee-profile [get]
func (h *LedgerHandler) FeeProfile(c *gin.Context) {
	academicYear := strings.TrimSpace(c.Query("academicYear"))
	if academicYear == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "academicYear is required"))
		return
	}
	profile, err := h.service.FeeProfile(c.Request.Context(), c.Param("id"), academicYear)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
