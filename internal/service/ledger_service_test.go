package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type fakeRoster struct {
	student       *models.Student
	enrollment    *models.Enrollment
	subjects      []models.OptedSubject
	studentErr    error
	enrollmentErr error
}

func (f *fakeRoster) FindByID(context.Context, string) (*models.Student, error) {
	if f.studentErr != nil {
		return nil, f.studentErr
	}
	return f.student, nil
}

func (f *fakeRoster) ResolveEnrollment(context.Context, string, string) (*models.Enrollment, error) {
	if f.enrollmentErr != nil {
		return nil, f.enrollmentErr
	}
	return f.enrollment, nil
}

func (f *fakeRoster) ListOptedSubjects(context.Context, string) ([]models.OptedSubject, error) {
	return f.subjects, nil
}

type fakeStructures struct {
	structures []models.FeeStructureDetail
	err        error
}

func (f *fakeStructures) ListStructuresForClassYear(context.Context, string, string) ([]models.FeeStructureDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.structures, nil
}

type fakeDiscounts struct {
	discounts []models.StudentDiscountDetail
}

func (f *fakeDiscounts) ListActiveByStudent(context.Context, string) ([]models.StudentDiscountDetail, error) {
	return f.discounts, nil
}

type fakeSettings struct {
	settings *models.GlobalFeeSettings
}

func (f *fakeSettings) Get(context.Context) (*models.GlobalFeeSettings, error) {
	return f.settings, nil
}

type fakePayments struct {
	payments []models.FeePayment
}

func (f *fakePayments) ListByStudentYear(context.Context, string, string) ([]models.FeePayment, error) {
	return f.payments, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newLedgerFixture(t *testing.T, payments []models.FeePayment, discounts []models.StudentDiscountDetail, now time.Time) *LedgerService {
	t.Helper()
	catTuition := "cat-tuition"
	catLab := "cat-lab"
	svc := NewLedgerService(LedgerServiceParams{
		Roster: &fakeRoster{
			student:    &models.Student{ID: "stu-1", FullName: "Ananya Rao"},
			enrollment: &models.Enrollment{ID: "enr-1", StudentID: "stu-1", ClassID: "class-10a", AcademicYear: "2025-2026"},
			subjects: []models.OptedSubject{
				{SubjectID: "sub-phy", SubjectName: "Physics", FeeCategoryID: &catLab, Position: 1},
				{SubjectID: "sub-chem", SubjectName: "Chemistry", FeeCategoryID: &catLab, Position: 2},
			},
		},
		Structures: &fakeStructures{structures: []models.FeeStructureDetail{
			{FeeStructure: models.FeeStructure{ID: "fs-1", FeeCategoryID: catTuition, ClassID: "class-10a", AcademicYear: "2025-2026", Amount: dec("800")}, CategoryName: "Tuition"},
			{FeeStructure: models.FeeStructure{ID: "fs-2", FeeCategoryID: catLab, ClassID: "class-10a", AcademicYear: "2025-2026", Amount: dec("200")}, CategoryName: "Lab"},
		}},
		Discounts: &fakeDiscounts{discounts: discounts},
		Settings: &fakeSettings{settings: &models.GlobalFeeSettings{
			FeeDueDay:     15,
			LateFeePerDay: dec("20"),
		}},
		Payments: &fakePayments{payments: payments},
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestBuildLedgerTwelveMonthsAprilToMarch(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	svc := newLedgerFixture(t, nil, nil, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	require.Len(t, ledger.Months, 12)
	assert.Equal(t, "2025-04", ledger.Months[0].Month)
	assert.Equal(t, "2026-03", ledger.Months[11].Month)
	assert.Equal(t, "April 2025", ledger.Months[0].Label)
	assert.Equal(t, "Ananya Rao", ledger.StudentName)
}

func TestBuildLedgerNoPaymentsNeverPaid(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc := newLedgerFixture(t, nil, nil, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	for _, month := range ledger.Months {
		assert.NotEqual(t, models.MonthStatusPaid, month.Status, month.Month)
		assert.True(t, month.TotalPaid.IsZero())
	}
	// April and May are past their due dates at this instant.
	assert.Equal(t, models.MonthStatusOverdue, ledger.Months[0].Status)
	assert.Equal(t, models.MonthStatusOverdue, ledger.Months[1].Status)
	assert.Equal(t, models.MonthStatusPending, ledger.Months[2].Status)
}

func TestBuildLedgerBaseFeeDedupesSharedCategory(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	svc := newLedgerFixture(t, nil, nil, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	// Physics claims the Lab category; Chemistry shares it and adds
	// nothing. Tuition has no subject and joins as an implicit class fee.
	assert.True(t, ledger.MonthlyBaseFee.Equal(dec("1000")), ledger.MonthlyBaseFee.String())
	assert.Equal(t, []string{"Lab", "Tuition"}, ledger.ApplicableCategories)
}

func TestBuildLedgerStacksFlatAndPercentageDiscounts(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	discounts := []models.StudentDiscountDetail{
		{CategoryName: "Sibling", Type: models.DiscountTypePercentage, Value: dec("10")},
		{CategoryName: "Staff Child", Type: models.DiscountTypeFlat, Value: dec("50")},
	}
	svc := newLedgerFixture(t, nil, discounts, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	assert.True(t, ledger.DiscountAmount.Equal(dec("150")), ledger.DiscountAmount.String())
	assert.True(t, ledger.NetMonthlyFee.Equal(dec("850")), ledger.NetMonthlyFee.String())
}

func TestBuildLedgerNetFeeFlooredAtZero(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	discounts := []models.StudentDiscountDetail{
		{CategoryName: "Full Scholarship", Type: models.DiscountTypeFlat, Value: dec("5000")},
	}
	svc := newLedgerFixture(t, nil, discounts, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	assert.True(t, ledger.NetMonthlyFee.IsZero())
	for _, month := range ledger.Months {
		assert.False(t, month.Outstanding.IsNegative(), month.Month)
	}
}

func TestBuildLedgerLateFeeAccruesPerDay(t *testing.T) {
	// Three full days past the April 15 due date.
	now := time.Date(2025, time.April, 18, 0, 0, 0, 0, time.UTC)
	svc := newLedgerFixture(t, nil, nil, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	april := ledger.Months[0]
	assert.Equal(t, models.MonthStatusOverdue, april.Status)
	assert.Equal(t, 3, april.DaysLate)
	assert.True(t, april.LateFee.Equal(dec("60")), april.LateFee.String())
	assert.True(t, april.TotalDue.Equal(dec("1060")), april.TotalDue.String())
	assert.True(t, april.Outstanding.Equal(dec("1060")), april.Outstanding.String())
}

func TestBuildLedgerPaidMonthAccruesNoLateFee(t *testing.T) {
	now := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)
	payments := []models.FeePayment{
		{ID: "pay-1", StudentID: "stu-1", FeeMonth: "2025-04", AmountPaid: dec("1000"), AcademicYear: "2025-2026"},
	}
	svc := newLedgerFixture(t, payments, nil, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	april := ledger.Months[0]
	assert.Equal(t, models.MonthStatusPaid, april.Status)
	assert.Zero(t, april.DaysLate)
	assert.True(t, april.LateFee.IsZero())
	assert.True(t, april.Outstanding.IsZero())
}

func TestBuildLedgerPartialPaymentPastDueGoesOverdue(t *testing.T) {
	now := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)
	payments := []models.FeePayment{
		{ID: "pay-1", StudentID: "stu-1", FeeMonth: "2025-04", AmountPaid: dec("400"), AcademicYear: "2025-2026"},
	}
	svc := newLedgerFixture(t, payments, nil, now)

	ledger, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	april := ledger.Months[0]
	assert.Equal(t, models.MonthStatusOverdue, april.Status)
	assert.Equal(t, 5, april.DaysLate)
	// 1000 net + 5*20 late - 400 paid.
	assert.True(t, april.Outstanding.Equal(dec("700")), april.Outstanding.String())
}

func TestBuildLedgerDeterministicAtFixedInstant(t *testing.T) {
	now := time.Date(2025, time.July, 3, 12, 0, 0, 0, time.UTC)
	svc := newLedgerFixture(t, nil, nil, now)

	first, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	second, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildLedgerStudentNotFound(t *testing.T) {
	svc := newLedgerFixture(t, nil, nil, time.Now())
	roster := svc.roster.(*fakeRoster)
	roster.studentErr = sql.ErrNoRows

	_, err := svc.BuildLedger(context.Background(), "missing", "2025-2026")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestBuildLedgerNotEnrolled(t *testing.T) {
	svc := newLedgerFixture(t, nil, nil, time.Now())
	roster := svc.roster.(*fakeRoster)
	roster.enrollmentErr = sql.ErrNoRows

	_, err := svc.BuildLedger(context.Background(), "stu-1", "2025-2026")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotEnrolled.Code, appErr.Code)
}

func TestBuildLedgerRejectsMalformedYear(t *testing.T) {
	svc := newLedgerFixture(t, nil, nil, time.Now())
	for _, year := range []string{"", "2025", "2025-2027", "abcd-efgh"} {
		_, err := svc.BuildLedger(context.Background(), "stu-1", year)
		require.Error(t, err, year)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code, year)
	}
}

func TestFeeProfileSkipsMonthlyBreakdown(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	discounts := []models.StudentDiscountDetail{
		{CategoryName: "Sibling", Type: models.DiscountTypePercentage, Value: dec("10")},
	}
	svc := newLedgerFixture(t, nil, discounts, now)

	profile, err := svc.FeeProfile(context.Background(), "stu-1", "2025-2026")
	require.NoError(t, err)
	assert.True(t, profile.MonthlyBaseFee.Equal(dec("1000")))
	assert.True(t, profile.NetMonthlyFee.Equal(dec("900")))
	require.Len(t, profile.ActiveDiscounts, 1)
}
