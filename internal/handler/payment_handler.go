package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fee-api/internal/models"
	"github.com/noah-isme/sma-fee-api/internal/service"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
	"github.com/noah-isme/sma-fee-api/pkg/response"
)

type paymentService interface {
	CollectPayment(ctx context.Context, req service.CollectPaymentRequest) (*models.Receipt, error)
	GetReceipt(ctx context.Context, receiptNumber string) (*models.Receipt, error)
	ReceiptPDF(ctx context.Context, receiptNumber string) ([]byte, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.FeePaymentDetail, *models.Pagination, error)
}

// PaymentHandler exposes payment collection and receipt endpoints.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(service paymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Collect godoc
// @Summary Record a fee payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.CollectPaymentRequest true "Payment"
// @Success 201 {object} response.Envelope
// @Router /finance/payments [post]
func (h *PaymentHandler) Collect(c *gin.Context) {
	var req service.CollectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	receipt, err := h.service.CollectPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param studentId query string false "Student ID"
// @Param academicYear query string false "Academic year"
// @Param feeMonth query string false "Fee month (YYYY-MM)"
// @Param method query string false "Payment method (CASH, CARD, ONLINE, CHEQUE)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /finance/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	filter := models.PaymentFilter{
		StudentID:    strings.TrimSpace(c.Query("studentId")),
		AcademicYear: strings.TrimSpace(c.Query("academicYear")),
		FeeMonth:     strings.TrimSpace(c.Query("feeMonth")),
		Method:       models.PaymentMethod(strings.TrimSpace(c.Query("method"))),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	payments, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// Receipt godoc
// @Summary Get a receipt by number
// @Tags Payments
// @Produce json
// @Param receiptNumber path string true "Receipt number"
// @Success 200 {object} response.Envelope
// @Router /finance/receipts/{receiptNumber} [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	receipt, err := h.service.GetReceipt(c.Request.Context(), c.Param("receiptNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, receipt, nil)
}

// ReceiptPDF godoc
// @Summary Download a receipt as PDF
// @Tags Payments
// @Produce application/pdf
// @Param receiptNumber path string true "Receipt number"
// @Success 200
// @Router /finance/receipts/{receiptNumber}/pdf [get]
func (h *PaymentHandler) ReceiptPDF(c *gin.Context) {
	receiptNumber := c.Param("receiptNumber")
	payload, err := h.service.ReceiptPDF(c.Request.Context(), receiptNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.pdf\"", receiptNumber))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", payload)
}
