package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthStatus is the derived payment state of a single ledger month.
type MonthStatus string

const (
	MonthStatusPending MonthStatus = "PENDING"
	MonthStatusPartial MonthStatus = "PARTIAL"
	MonthStatusPaid    MonthStatus = "PAID"
	MonthStatusOverdue MonthStatus = "OVERDUE"
)

// MonthLedgerEntry is one derived calendar month of a student ledger.
// Entries are recomputed on every read and never persisted; in particular
// the late fee depends on the evaluation instant, so two reads of the same
// month at different times can legitimately disagree.
type MonthLedgerEntry struct {
	Month       string          `json:"month"`
	Label       string          `json:"label"`
	DueDate     time.Time       `json:"due_date"`
	BaseFee     decimal.Decimal `json:"base_fee"`
	Discount    decimal.Decimal `json:"discount"`
	DaysLate    int             `json:"days_late"`
	LateFee     decimal.Decimal `json:"late_fee"`
	TotalDue    decimal.Decimal `json:"total_due"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      MonthStatus     `json:"status"`
	Payments    []FeePayment    `json:"payments"`
}

// StudentLedger is the twelve-month derived breakdown for one student and
// academic year.
type StudentLedger struct {
	StudentID            string             `json:"student_id"`
	StudentName          string             `json:"student_name"`
	AcademicYear         string             `json:"academic_year"`
	ClassID              string             `json:"class_id"`
	ApplicableCategories []string           `json:"applicable_categories"`
	MonthlyBaseFee       decimal.Decimal    `json:"monthly_base_fee"`
	DiscountAmount       decimal.Decimal    `json:"discount_amount"`
	NetMonthlyFee        decimal.Decimal    `json:"net_monthly_fee"`
	Months               []MonthLedgerEntry `json:"months"`
	GeneratedAt          time.Time          `json:"generated_at"`
}

// FeeProfile is the ledger header without the monthly breakdown: the
// resolved base fee, categories and active discounts for a student.
type FeeProfile struct {
	StudentID            string                  `json:"student_id"`
	AcademicYear         string                  `json:"academic_year"`
	ClassID              string                  `json:"class_id"`
	ApplicableCategories []string                `json:"applicable_categories"`
	MonthlyBaseFee       decimal.Decimal         `json:"monthly_base_fee"`
	DiscountAmount       decimal.Decimal         `json:"discount_amount"`
	NetMonthlyFee        decimal.Decimal         `json:"net_monthly_fee"`
	ActiveDiscounts      []StudentDiscountDetail `json:"active_discounts"`
}
