package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type rosterReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ResolveEnrollment(ctx context.Context, studentID, academicYear string) (*models.Enrollment, error)
	ListOptedSubjects(ctx context.Context, studentID string) ([]models.OptedSubject, error)
}

type structureReader interface {
	ListStructuresForClassYear(ctx context.Context, classID, academicYear string) ([]models.FeeStructureDetail, error)
}

type activeDiscountReader interface {
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.StudentDiscountDetail, error)
}

type settingsProvider interface {
	Get(ctx context.Context) (*models.GlobalFeeSettings, error)
}

type studentPaymentReader interface {
	ListByStudentYear(ctx context.Context, studentID, academicYear string) ([]models.FeePayment, error)
}

// LedgerService derives student fee ledgers. It holds no state between
// calls: every ledger is a pure function of catalog, discounts, payments,
// settings and the evaluation instant, so concurrent builds for different
// students need no coordination. Late fees are recomputed on every read and
// never persisted, which means two reads at different instants can return
// different totals for the same month. That is intentional.
type LedgerService struct {
	roster     rosterReader
	structures structureReader
	discounts  activeDiscountReader
	settings   settingsProvider
	payments   studentPaymentReader
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// LedgerServiceParams groups constructor dependencies.
type LedgerServiceParams struct {
	Roster     rosterReader
	Structures structureReader
	Discounts  activeDiscountReader
	Settings   settingsProvider
	Payments   studentPaymentReader
	Metrics    *MetricsService
	Logger     *zap.Logger
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(params LedgerServiceParams) *LedgerService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		roster:     params.Roster,
		structures: params.Structures,
		discounts:  params.Discounts,
		settings:   params.Settings,
		payments:   params.Payments,
		metrics:    params.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// BuildLedger derives the twelve-month ledger for one student and academic
// year.
func (s *LedgerService) BuildLedger(ctx context.Context, studentID, academicYear string) (*models.StudentLedger, error) {
	months, err := academicYearMonths(academicYear)
	if err != nil {
		return nil, err
	}

	student, err := s.roster.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	enrollment, err := s.roster.ResolveEnrollment(ctx, studentID, academicYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotEnrolled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve enrollment")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.resolveProfile(ctx, student.ID, enrollment.ClassID, academicYear)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByStudentYear(ctx, studentID, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payments")
	}
	byMonth := make(map[string][]models.FeePayment, len(payments))
	for _, payment := range payments {
		byMonth[payment.FeeMonth] = append(byMonth[payment.FeeMonth], payment)
	}

	now := s.now().UTC()
	entries := make([]models.MonthLedgerEntry, 0, len(months))
	for _, month := range months {
		entries = append(entries, s.buildMonth(month, profile, settings, byMonth[month.Key], now))
	}

	if s.metrics != nil {
		s.metrics.RecordLedgerBuilt()
	}

	return &models.StudentLedger{
		StudentID:            student.ID,
		StudentName:          student.FullName,
		AcademicYear:         academicYear,
		ClassID:              enrollment.ClassID,
		ApplicableCategories: profile.ApplicableCategories,
		MonthlyBaseFee:       profile.MonthlyBaseFee,
		DiscountAmount:       profile.DiscountAmount,
		NetMonthlyFee:        profile.NetMonthlyFee,
		Months:               entries,
		GeneratedAt:          now,
	}, nil
}

// FeeProfile resolves the ledger header (base fee, categories, discounts)
// without generating the monthly breakdown.
func (s *LedgerService) FeeProfile(ctx context.Context, studentID, academicYear string) (*models.FeeProfile, error) {
	if _, err := academicYearStart(academicYear); err != nil {
		return nil, err
	}
	student, err := s.roster.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	enrollment, err := s.roster.ResolveEnrollment(ctx, student.ID, academicYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotEnrolled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve enrollment")
	}
	return s.resolveProfile(ctx, student.ID, enrollment.ClassID, academicYear)
}

// resolveProfile computes base fee, applicable categories and stacked
// discounts for a student in a class and year.
func (s *LedgerService) resolveProfile(ctx context.Context, studentID, classID, academicYear string) (*models.FeeProfile, error) {
	subjects, err := s.roster.ListOptedSubjects(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opted subjects")
	}
	structures, err := s.structures.ListStructuresForClassYear(ctx, classID, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee structures")
	}
	discounts, err := s.discounts.ListActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discounts")
	}

	baseFee, categories := resolveBaseFee(subjects, structures)
	discountAmount := stackDiscounts(baseFee, discounts)

	netMonthly := baseFee.Sub(discountAmount)
	if netMonthly.IsNegative() {
		netMonthly = decimal.Zero
	}

	return &models.FeeProfile{
		StudentID:            studentID,
		AcademicYear:         academicYear,
		ClassID:              classID,
		ApplicableCategories: categories,
		MonthlyBaseFee:       baseFee,
		DiscountAmount:       discountAmount,
		NetMonthlyFee:        netMonthly,
		ActiveDiscounts:      discounts,
	}, nil
}

// resolveBaseFee walks the opted subjects in their recorded order; the
// first subject referencing a fee category claims that category's structure
// amount exactly once. Structures whose category no subject claimed are
// then added as implicit class-level fees. The category order in the
// returned slice is the order amounts were applied, preserved for display
// and receipting. Changing this precedence changes collected revenue, so
// it must stay exactly as is.
func resolveBaseFee(subjects []models.OptedSubject, structures []models.FeeStructureDetail) (decimal.Decimal, []string) {
	byCategory := make(map[string]models.FeeStructureDetail, len(structures))
	for _, structure := range structures {
		byCategory[structure.FeeCategoryID] = structure
	}

	total := decimal.Zero
	counted := make(map[string]struct{}, len(structures))
	categories := make([]string, 0, len(structures))

	for _, subject := range subjects {
		if subject.FeeCategoryID == nil {
			continue
		}
		structure, ok := byCategory[*subject.FeeCategoryID]
		if !ok {
			continue
		}
		if _, seen := counted[structure.FeeCategoryID]; seen {
			continue
		}
		counted[structure.FeeCategoryID] = struct{}{}
		total = total.Add(structure.Amount)
		categories = append(categories, structure.CategoryName)
	}

	for _, structure := range structures {
		if _, seen := counted[structure.FeeCategoryID]; seen {
			continue
		}
		counted[structure.FeeCategoryID] = struct{}{}
		total = total.Add(structure.Amount)
		categories = append(categories, structure.CategoryName)
	}

	return total, categories
}

// stackDiscounts sums every active assignment: flat values subtract as-is,
// percentage values subtract their share of the base fee. All active
// discounts stack.
func stackDiscounts(baseFee decimal.Decimal, discounts []models.StudentDiscountDetail) decimal.Decimal {
	total := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for _, discount := range discounts {
		switch discount.Type {
		case models.DiscountTypeFlat:
			total = total.Add(discount.Value)
		case models.DiscountTypePercentage:
			total = total.Add(baseFee.Mul(discount.Value).Div(hundred))
		}
	}
	return total
}

// buildMonth derives a single ledger month from the profile, settings and
// that month's payments at the evaluation instant.
func (s *LedgerService) buildMonth(month monthRef, profile *models.FeeProfile, settings *models.GlobalFeeSettings, payments []models.FeePayment, now time.Time) models.MonthLedgerEntry {
	totalPaid := decimal.Zero
	for _, payment := range payments {
		totalPaid = totalPaid.Add(payment.AmountPaid)
	}

	dueDate := time.Date(month.Year, month.Month, settings.FeeDueDay, 0, 0, 0, 0, time.UTC)

	status := models.MonthStatusPending
	if profile.NetMonthlyFee.IsPositive() && totalPaid.GreaterThanOrEqual(profile.NetMonthlyFee) {
		status = models.MonthStatusPaid
	} else if totalPaid.IsPositive() {
		status = models.MonthStatusPartial
	}

	daysLate := 0
	lateFee := decimal.Zero
	if status != models.MonthStatusPaid && now.After(dueDate) {
		daysLate = int(now.Sub(dueDate).Hours() / 24)
		lateFee = settings.LateFeePerDay.Mul(decimal.NewFromInt(int64(daysLate)))
		status = models.MonthStatusOverdue
	}

	totalDue := profile.NetMonthlyFee.Add(lateFee)
	outstanding := totalDue.Sub(totalPaid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	if payments == nil {
		payments = []models.FeePayment{}
	}

	return models.MonthLedgerEntry{
		Month:       month.Key,
		Label:       month.Label,
		DueDate:     dueDate,
		BaseFee:     profile.MonthlyBaseFee,
		Discount:    profile.DiscountAmount,
		DaysLate:    daysLate,
		LateFee:     lateFee,
		TotalDue:    totalDue,
		TotalPaid:   totalPaid,
		Outstanding: outstanding,
		Status:      status,
		Payments:    payments,
	}
}
