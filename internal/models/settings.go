package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GlobalFeeSettings is the singleton configuration row for the billing
// engine: the day of month fees fall due and the per-day late fee rate.
// Exactly one row exists; it is lazily created with defaults on first read.
type GlobalFeeSettings struct {
	ID            string          `db:"id" json:"id"`
	FeeDueDay     int             `db:"fee_due_day" json:"fee_due_day"`
	LateFeePerDay decimal.Decimal `db:"late_fee_per_day" json:"late_fee_per_day"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
