package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

// FinancialSnapshot is the fleet-wide dashboard payload for one academic
// year. Totals fold every month of every successfully processed student;
// students whose ledger failed to build are listed in SkippedStudents and
// excluded from all sums.
type FinancialSnapshot struct {
	AcademicYear      string          `json:"academic_year"`
	StudentCount      int             `json:"student_count"`
	TotalExpected     decimal.Decimal `json:"total_expected"`
	TotalCollected    decimal.Decimal `json:"total_collected"`
	TotalDiscount     decimal.Decimal `json:"total_discount"`
	TotalLateFee      decimal.Decimal `json:"total_late_fee"`
	TotalOverdue      decimal.Decimal `json:"total_overdue"`
	SelectedMonth     string          `json:"selected_month"`
	SelectedExpected  decimal.Decimal `json:"selected_month_expected"`
	SelectedCollected decimal.Decimal `json:"selected_month_collected"`
	CollectionRate    float64         `json:"collection_rate"`

	SkippedStudents    []string                  `json:"skipped_students"`
	RecentTransactions []models.FeePaymentDetail `json:"recent_transactions"`
}
