package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType distinguishes flat deductions from percentage deductions.
type DiscountType string

const (
	DiscountTypeFlat       DiscountType = "FLAT"
	DiscountTypePercentage DiscountType = "PERCENTAGE"
)

// DiscountApplication indicates how a discount gets assigned to students.
type DiscountApplication string

const (
	DiscountApplicationManual DiscountApplication = "MANUAL"
	DiscountApplicationAuto   DiscountApplication = "AUTO"
)

// DiscountCategory defines a reusable discount rule. LogicReference is a
// free-form tag (e.g. SIBLING, GIRL) used only as a client-side
// pre-selection hint; the ledger engine never re-derives AUTO discounts and
// only honors recorded assignments.
type DiscountCategory struct {
	ID              string              `db:"id" json:"id"`
	Name            string              `db:"name" json:"name"`
	Type            DiscountType        `db:"type" json:"type"`
	Value           decimal.Decimal     `db:"value" json:"value"`
	ApplicationType DiscountApplication `db:"application_type" json:"application_type"`
	LogicReference  string              `db:"logic_reference" json:"logic_reference"`
	IsActive        bool                `db:"is_active" json:"is_active"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

// StudentDiscountAssignment links a student to a discount category.
// A student may carry several simultaneously active assignments; all of
// them stack during ledger computation.
type StudentDiscountAssignment struct {
	ID                 string    `db:"id" json:"id"`
	StudentID          string    `db:"student_id" json:"student_id"`
	DiscountCategoryID string    `db:"discount_category_id" json:"discount_category_id"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDiscountDetail is an assignment joined with its category definition.
type StudentDiscountDetail struct {
	StudentDiscountAssignment
	CategoryName   string          `db:"category_name" json:"category_name"`
	Type           DiscountType    `db:"type" json:"type"`
	Value          decimal.Decimal `db:"value" json:"value"`
	CategoryActive bool            `db:"category_active" json:"category_active"`
}

// DiscountCategoryFilter captures supported filters for listing discounts.
type DiscountCategoryFilter struct {
	ApplicationType DiscountApplication
	Active          *bool
}
