package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
	PaymentMethodCheque PaymentMethod = "CHEQUE"
)

// Valid reports whether the method is one of the accepted channels.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline, PaymentMethodCheque:
		return true
	}
	return false
}

// FeePayment is one immutable payment row against a single fee month.
// Corrections are recorded as new rows, never as edits.
type FeePayment struct {
	ID            string          `db:"id" json:"id"`
	StudentID     string          `db:"student_id" json:"student_id"`
	FeeMonth      string          `db:"fee_month" json:"fee_month"`
	AmountPaid    decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	PaymentDate   time.Time       `db:"payment_date" json:"payment_date"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"payment_method"`
	ReceiptNumber string          `db:"receipt_number" json:"receipt_number"`
	AcademicYear  string          `db:"academic_year" json:"academic_year"`
	Remarks       string          `db:"remarks" json:"remarks"`
}

// FeePaymentDetail is a payment joined with the student name for listings.
type FeePaymentDetail struct {
	FeePayment
	StudentName string `db:"student_name" json:"student_name"`
}

// PaymentFilter captures supported filters for listing payments.
type PaymentFilter struct {
	StudentID    string
	AcademicYear string
	FeeMonth     string
	Method       PaymentMethod
	Page         int
	PageSize     int
}

// Receipt is the set of payment rows created from one submission,
// correlated by a shared receipt number.
type Receipt struct {
	ReceiptNumber string          `json:"receipt_number"`
	StudentID     string          `json:"student_id"`
	AcademicYear  string          `json:"academic_year"`
	Total         decimal.Decimal `json:"total"`
	Payments      []FeePayment    `json:"payments"`
}
