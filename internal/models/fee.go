package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeCategory is a named kind of fee (tuition, transport, lab, ...).
type FeeCategory struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FeeStructure binds an amount to a (class, category, academic year) triple.
// The triple is unique; duplicates are rejected at the storage layer.
type FeeStructure struct {
	ID            string          `db:"id" json:"id"`
	ClassID       string          `db:"class_id" json:"class_id"`
	FeeCategoryID string          `db:"fee_category_id" json:"fee_category_id"`
	AcademicYear  string          `db:"academic_year" json:"academic_year"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// FeeStructureDetail is a structure joined with its category name for display.
type FeeStructureDetail struct {
	FeeStructure
	CategoryName   string `db:"category_name" json:"category_name"`
	CategoryActive bool   `db:"category_active" json:"category_active"`
}

// FeeStructureFilter captures supported filters for listing structures.
type FeeStructureFilter struct {
	ClassID       string
	FeeCategoryID string
	AcademicYear  string
	Page          int
	PageSize      int
}

// FeeCategoryFilter captures supported filters for listing categories.
type FeeCategoryFilter struct {
	Active *bool
	Search string
}
