package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/dto"
	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type enrollmentLister interface {
	ListEnrolledStudents(ctx context.Context, academicYear string) ([]string, error)
}

type recentPaymentReader interface {
	ListRecent(ctx context.Context, limit int) ([]models.FeePaymentDetail, error)
}

type ledgerBuilder interface {
	BuildLedger(ctx context.Context, studentID, academicYear string) (*models.StudentLedger, error)
}

// DashboardService aggregates per-student ledgers into a fleet-wide
// financial snapshot. A student whose ledger fails to build is skipped and
// reported, never fatal: one bad enrollment must not blank the whole
// dashboard.
type DashboardService struct {
	students    enrollmentLister
	ledgers     ledgerBuilder
	payments    recentPaymentReader
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	cacheTTL    time.Duration
	recentLimit int
	now         func() time.Time
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students    enrollmentLister
	Ledgers     ledgerBuilder
	Payments    recentPaymentReader
	Cache       *CacheService
	Metrics     *MetricsService
	Logger      *zap.Logger
	CacheTTL    time.Duration
	RecentLimit int
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	limit := params.RecentLimit
	if limit <= 0 {
		limit = 20
	}
	return &DashboardService{
		students:    params.Students,
		ledgers:     params.Ledgers,
		payments:    params.Payments,
		cache:       params.Cache,
		metrics:     params.Metrics,
		logger:      logger,
		cacheTTL:    ttl,
		recentLimit: limit,
		now:         time.Now,
	}
}

// Snapshot returns the financial snapshot for an academic year, serving
// from cache when a fresh copy exists.
func (s *DashboardService) Snapshot(ctx context.Context, academicYear string) (*dto.FinancialSnapshot, error) {
	if _, err := academicYearStart(academicYear); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("finance:dashboard:%s", academicYear)
	if s.cache != nil && s.cache.Enabled() {
		var cached dto.FinancialSnapshot
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	snapshot, err := s.build(ctx, academicYear)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, snapshot, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

func (s *DashboardService) build(ctx context.Context, academicYear string) (*dto.FinancialSnapshot, error) {
	studentIDs, err := s.students.ListEnrolledStudents(ctx, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}

	selectedMonth := currentMonthKey(s.now())
	snapshot := &dto.FinancialSnapshot{
		AcademicYear:      academicYear,
		SelectedMonth:     selectedMonth,
		TotalExpected:     decimal.Zero,
		TotalCollected:    decimal.Zero,
		TotalDiscount:     decimal.Zero,
		TotalLateFee:      decimal.Zero,
		TotalOverdue:      decimal.Zero,
		SelectedExpected:  decimal.Zero,
		SelectedCollected: decimal.Zero,
	}

	for _, studentID := range studentIDs {
		ledger, err := s.ledgers.BuildLedger(ctx, studentID, academicYear)
		if err != nil {
			snapshot.SkippedStudents = append(snapshot.SkippedStudents, studentID)
			s.logger.Warn("student skipped from dashboard",
				zap.String("student_id", studentID),
				zap.String("academic_year", academicYear),
				zap.Error(err))
			continue
		}
		snapshot.StudentCount++
		for _, month := range ledger.Months {
			snapshot.TotalExpected = snapshot.TotalExpected.Add(month.TotalDue)
			snapshot.TotalCollected = snapshot.TotalCollected.Add(month.TotalPaid)
			snapshot.TotalDiscount = snapshot.TotalDiscount.Add(month.Discount)
			snapshot.TotalLateFee = snapshot.TotalLateFee.Add(month.LateFee)
			if month.Status == models.MonthStatusOverdue {
				snapshot.TotalOverdue = snapshot.TotalOverdue.Add(month.Outstanding)
			}
			if month.Month == selectedMonth {
				snapshot.SelectedExpected = snapshot.SelectedExpected.Add(month.TotalDue)
				snapshot.SelectedCollected = snapshot.SelectedCollected.Add(month.TotalPaid)
			}
		}
	}

	if snapshot.SelectedExpected.IsPositive() {
		rate, _ := snapshot.SelectedCollected.
			Div(snapshot.SelectedExpected).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
		snapshot.CollectionRate = rate
	}

	recent, err := s.payments.ListRecent(ctx, s.recentLimit)
	if err != nil {
		s.logger.Warn("recent transactions unavailable", zap.Error(err))
	} else {
		snapshot.RecentTransactions = recent
	}

	if s.metrics != nil {
		s.metrics.RecordDashboardBuild(len(snapshot.SkippedStudents))
	}
	return snapshot, nil
}
