package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type fakePaymentStore struct {
	created   []models.FeePayment
	createErr error
	byReceipt []models.FeePayment
	listed    []models.FeePaymentDetail
	total     int
}

func (f *fakePaymentStore) CreateReceipt(_ context.Context, payments []models.FeePayment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = payments
	return nil
}

func (f *fakePaymentStore) ListByReceipt(context.Context, string) ([]models.FeePayment, error) {
	return f.byReceipt, nil
}

func (f *fakePaymentStore) List(context.Context, models.PaymentFilter) ([]models.FeePaymentDetail, int, error) {
	return f.listed, f.total, nil
}

type fakeStudentFinder struct {
	student *models.Student
	err     error
}

func (f *fakeStudentFinder) FindByID(context.Context, string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.student, nil
}

func newPaymentFixture(store *fakePaymentStore) *PaymentService {
	return NewPaymentService(PaymentServiceParams{
		Repo:     store,
		Students: &fakeStudentFinder{student: &models.Student{ID: "stu-1", FullName: "Ananya Rao"}},
	})
}

func TestCollectPaymentSplitsEvenlyAcrossMonths(t *testing.T) {
	store := &fakePaymentStore{}
	svc := newPaymentFixture(store)

	receipt, err := svc.CollectPayment(context.Background(), CollectPaymentRequest{
		StudentID:    "stu-1",
		FeeMonths:    []string{"2025-04", "2025-05", "2025-06"},
		AmountPaid:   dec("300"),
		Method:       models.PaymentMethodCash,
		AcademicYear: "2025-2026",
	})
	require.NoError(t, err)
	require.Len(t, store.created, 3)

	for _, payment := range store.created {
		assert.True(t, payment.AmountPaid.Equal(dec("100")), payment.AmountPaid.String())
		assert.Equal(t, receipt.ReceiptNumber, payment.ReceiptNumber)
	}
	assert.True(t, receipt.Total.Equal(dec("300")))
}

func TestCollectPaymentRemainderLandsOnFirstMonth(t *testing.T) {
	store := &fakePaymentStore{}
	svc := newPaymentFixture(store)

	_, err := svc.CollectPayment(context.Background(), CollectPaymentRequest{
		StudentID:    "stu-1",
		FeeMonths:    []string{"2025-04", "2025-05", "2025-06"},
		AmountPaid:   dec("100"),
		Method:       models.PaymentMethodOnline,
		AcademicYear: "2025-2026",
	})
	require.NoError(t, err)
	require.Len(t, store.created, 3)

	assert.True(t, store.created[0].AmountPaid.Equal(dec("33.34")), store.created[0].AmountPaid.String())
	assert.True(t, store.created[1].AmountPaid.Equal(dec("33.33")))
	assert.True(t, store.created[2].AmountPaid.Equal(dec("33.33")))

	sum := store.created[0].AmountPaid.Add(store.created[1].AmountPaid).Add(store.created[2].AmountPaid)
	assert.True(t, sum.Equal(dec("100")), sum.String())
}

func TestCollectPaymentReceiptNumberFormat(t *testing.T) {
	store := &fakePaymentStore{}
	svc := newPaymentFixture(store)

	receipt, err := svc.CollectPayment(context.Background(), CollectPaymentRequest{
		StudentID:    "stu-1",
		FeeMonths:    []string{"2025-04"},
		AmountPaid:   dec("500"),
		Method:       models.PaymentMethodCard,
		AcademicYear: "2025-2026",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.ReceiptNumber, "RCPT-"), receipt.ReceiptNumber)
}

func TestCollectPaymentRejectsInvalidInput(t *testing.T) {
	svc := newPaymentFixture(&fakePaymentStore{})

	cases := []CollectPaymentRequest{
		{StudentID: "stu-1", FeeMonths: nil, AmountPaid: dec("100"), Method: models.PaymentMethodCash, AcademicYear: "2025-2026"},
		{StudentID: "stu-1", FeeMonths: []string{"2025-04"}, AmountPaid: dec("0"), Method: models.PaymentMethodCash, AcademicYear: "2025-2026"},
		{StudentID: "stu-1", FeeMonths: []string{"2025-04"}, AmountPaid: dec("-10"), Method: models.PaymentMethodCash, AcademicYear: "2025-2026"},
		{StudentID: "stu-1", FeeMonths: []string{"2025-04"}, AmountPaid: dec("100"), Method: "BARTER", AcademicYear: "2025-2026"},
		{StudentID: "stu-1", FeeMonths: []string{"2025-04"}, AmountPaid: dec("100"), Method: models.PaymentMethodCash, AcademicYear: "2025"},
	}
	for i, req := range cases {
		_, err := svc.CollectPayment(context.Background(), req)
		require.Error(t, err, i)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code, i)
	}
}

func TestCollectPaymentUnknownStudent(t *testing.T) {
	svc := NewPaymentService(PaymentServiceParams{
		Repo:     &fakePaymentStore{},
		Students: &fakeStudentFinder{err: sql.ErrNoRows},
	})

	_, err := svc.CollectPayment(context.Background(), CollectPaymentRequest{
		StudentID:    "missing",
		FeeMonths:    []string{"2025-04"},
		AmountPaid:   dec("100"),
		Method:       models.PaymentMethodCash,
		AcademicYear: "2025-2026",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGetReceiptSumsRows(t *testing.T) {
	store := &fakePaymentStore{byReceipt: []models.FeePayment{
		{ID: "pay-1", StudentID: "stu-1", FeeMonth: "2025-04", AmountPaid: dec("100"), ReceiptNumber: "RCPT-2025-ABCD2345", AcademicYear: "2025-2026"},
		{ID: "pay-2", StudentID: "stu-1", FeeMonth: "2025-05", AmountPaid: dec("100"), ReceiptNumber: "RCPT-2025-ABCD2345", AcademicYear: "2025-2026"},
	}}
	svc := newPaymentFixture(store)

	receipt, err := svc.GetReceipt(context.Background(), "RCPT-2025-ABCD2345")
	require.NoError(t, err)
	assert.True(t, receipt.Total.Equal(dec("200")))
	assert.Equal(t, "stu-1", receipt.StudentID)
	assert.Len(t, receipt.Payments, 2)
}

func TestGetReceiptNotFound(t *testing.T) {
	svc := newPaymentFixture(&fakePaymentStore{})

	_, err := svc.GetReceipt(context.Background(), "RCPT-2025-MISSING1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
