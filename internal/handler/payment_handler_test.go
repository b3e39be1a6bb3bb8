package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fee-api/internal/models"
	"github.com/noah-isme/sma-fee-api/internal/service"
)

type paymentServiceMock struct {
	listFilter models.PaymentFilter
}

func (m *paymentServiceMock) CollectPayment(ctx context.Context, req service.CollectPaymentRequest) (*models.Receipt, error) {
	return &models.Receipt{}, nil
}

func (m *paymentServiceMock) GetReceipt(ctx context.Context, receiptNumber string) (*models.Receipt, error) {
	return &models.Receipt{}, nil
}

func (m *paymentServiceMock) ReceiptPDF(ctx context.Context, receiptNumber string) ([]byte, error) {
	return nil, nil
}

func (m *paymentServiceMock) List(ctx context.Context, filter models.PaymentFilter) ([]models.FeePaymentDetail, *models.Pagination, error) {
	m.listFilter = filter
	return nil, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func TestPaymentHandlerListForwardsFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &paymentServiceMock{}
	handler := NewPaymentHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/finance/payments?studentId=stu-1&academicYear=2025-2026&feeMonth=2025-04&method=CASH&page=2&pageSize=10", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "stu-1", mockSvc.listFilter.StudentID)
	require.Equal(t, "2025-2026", mockSvc.listFilter.AcademicYear)
	require.Equal(t, "2025-04", mockSvc.listFilter.FeeMonth)
	require.Equal(t, models.PaymentMethodCash, mockSvc.listFilter.Method)
	require.Equal(t, 2, mockSvc.listFilter.Page)
	require.Equal(t, 10, mockSvc.listFilter.PageSize)
}
