package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/models"
	"github.com/noah-isme/sma-fee-api/internal/repository"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
	"github.com/noah-isme/sma-fee-api/pkg/export"
)

type paymentStore interface {
	CreateReceipt(ctx context.Context, payments []models.FeePayment) error
	ListByReceipt(ctx context.Context, receiptNumber string) ([]models.FeePayment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.FeePaymentDetail, int, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type receiptRenderer interface {
	RenderReceipt(doc export.ReceiptDocument) ([]byte, error)
}

// CollectPaymentRequest is the payload for recording a payment across one
// or more fee months.
type CollectPaymentRequest struct {
	StudentID    string               `json:"student_id" validate:"required"`
	FeeMonths    []string             `json:"fee_months" validate:"required,min=1,dive,required"`
	AmountPaid   decimal.Decimal      `json:"amount_paid"`
	Method       models.PaymentMethod `json:"payment_method" validate:"required"`
	AcademicYear string               `json:"academic_year" validate:"required"`
	Remarks      string               `json:"remarks"`
}

// PaymentService records fee payments and serves receipts. Amounts are
// split evenly across the selected months regardless of each month's own
// outstanding balance; the submitted amount is never checked against what
// is owed. Both behaviours are deliberate (see DESIGN.md) because changing
// them changes observable receipts.
type PaymentService struct {
	repo     paymentStore
	students studentFinder
	cache    *CacheService
	metrics  *MetricsService
	pdf      receiptRenderer
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// PaymentServiceParams groups constructor dependencies.
type PaymentServiceParams struct {
	Repo     paymentStore
	Students studentFinder
	Cache    *CacheService
	Metrics  *MetricsService
	PDF      receiptRenderer
	Validate *validator.Validate
	Logger   *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(params PaymentServiceParams) *PaymentService {
	validate := params.Validate
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &PaymentService{
		repo:     params.Repo,
		students: params.Students,
		cache:    params.Cache,
		metrics:  params.Metrics,
		pdf:      pdf,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

// CollectPayment splits the amount evenly across the selected months and
// records one payment row per month, all sharing a freshly generated
// receipt number. The division remainder lands on the first month so the
// rows always sum to the submitted amount.
func (s *PaymentService) CollectPayment(ctx context.Context, req CollectPaymentRequest) (*models.Receipt, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !req.Method.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment method must be CASH, CARD, ONLINE or CHEQUE")
	}
	if !req.AmountPaid.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount paid must be positive")
	}
	if _, err := academicYearStart(req.AcademicYear); err != nil {
		return nil, err
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	receiptNumber := s.generateReceiptNumber()
	paymentDate := s.now().UTC()

	monthCount := decimal.NewFromInt(int64(len(req.FeeMonths)))
	share := req.AmountPaid.DivRound(monthCount, 2)
	firstShare := req.AmountPaid.Sub(share.Mul(monthCount.Sub(decimal.NewFromInt(1))))

	payments := make([]models.FeePayment, 0, len(req.FeeMonths))
	for i, month := range req.FeeMonths {
		amount := share
		if i == 0 {
			amount = firstShare
		}
		payments = append(payments, models.FeePayment{
			StudentID:     req.StudentID,
			FeeMonth:      month,
			AmountPaid:    amount,
			PaymentDate:   paymentDate,
			PaymentMethod: req.Method,
			ReceiptNumber: receiptNumber,
			AcademicYear:  req.AcademicYear,
			Remarks:       req.Remarks,
		})
	}

	if err := s.repo.CreateReceipt(ctx, payments); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateReceipt
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentsRecorded(len(payments))
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "finance:dashboard:*"); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}
	s.logger.Info("payment recorded",
		zap.String("receipt_number", receiptNumber),
		zap.String("student_id", req.StudentID),
		zap.Int("months", len(payments)),
		zap.String("amount", req.AmountPaid.String()))

	return &models.Receipt{
		ReceiptNumber: receiptNumber,
		StudentID:     req.StudentID,
		AcademicYear:  req.AcademicYear,
		Total:         req.AmountPaid,
		Payments:      payments,
	}, nil
}

// GetReceipt returns the rows sharing a receipt number.
func (s *PaymentService) GetReceipt(ctx context.Context, receiptNumber string) (*models.Receipt, error) {
	payments, err := s.repo.ListByReceipt(ctx, receiptNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load receipt")
	}
	if len(payments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "receipt not found")
	}
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.AmountPaid)
	}
	return &models.Receipt{
		ReceiptNumber: receiptNumber,
		StudentID:     payments[0].StudentID,
		AcademicYear:  payments[0].AcademicYear,
		Total:         total,
		Payments:      payments,
	}, nil
}

// ReceiptPDF renders a printable receipt document.
func (s *PaymentService) ReceiptPDF(ctx context.Context, receiptNumber string) ([]byte, error) {
	receipt, err := s.GetReceipt(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, receipt.StudentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	studentName := receipt.StudentID
	if student != nil {
		studentName = student.FullName
	}

	doc := export.ReceiptDocument{
		ReceiptNumber: receipt.ReceiptNumber,
		StudentName:   studentName,
		StudentID:     receipt.StudentID,
		AcademicYear:  receipt.AcademicYear,
		PaymentDate:   receipt.Payments[0].PaymentDate.Format("2006-01-02"),
		PaymentMethod: string(receipt.Payments[0].PaymentMethod),
		Remarks:       receipt.Payments[0].Remarks,
		Total:         receipt.Total.StringFixed(2),
	}
	for _, payment := range receipt.Payments {
		doc.Lines = append(doc.Lines, export.ReceiptLine{
			Month:  payment.FeeMonth,
			Amount: payment.AmountPaid.StringFixed(2),
		})
	}
	return s.pdf.RenderReceipt(doc)
}

// List returns payments matching the filter with pagination metadata.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.FeePaymentDetail, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return payments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// generateReceiptNumber builds a year-stamped receipt number with a random
// alphanumeric suffix. Uniqueness is ultimately enforced by the storage
// constraint, not by a construction-time collision check.
func (s *PaymentService) generateReceiptNumber() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("RCPT-%d-%d", s.now().Year(), s.now().UnixNano())
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("RCPT-%d-%s", s.now().Year(), string(buf))
}
