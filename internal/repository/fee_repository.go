package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

const pqUniqueViolation = "23505"

// FeeRepository persists fee categories and class-scoped fee structures.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs the repository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// ListCategories returns fee categories matching the filter.
func (r *FeeRepository) ListCategories(ctx context.Context, filter models.FeeCategoryFilter) ([]models.FeeCategory, error) {
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	query := `SELECT id, name, description, is_active, created_at, updated_at FROM fee_categories`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"

	var categories []models.FeeCategory
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("list fee categories: %w", err)
	}
	return categories, nil
}

// FindCategoryByID returns a category by its ID.
func (r *FeeRepository) FindCategoryByID(ctx context.Context, id string) (*models.FeeCategory, error) {
	const query = `SELECT id, name, description, is_active, created_at, updated_at FROM fee_categories WHERE id = $1`
	var category models.FeeCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory persists a new fee category. Category names are unique.
func (r *FeeRepository) CreateCategory(ctx context.Context, category *models.FeeCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	const query = `INSERT INTO fee_categories (id, name, description, is_active, created_at, updated_at)
VALUES (:id, :name, :description, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create fee category: %w", err)
	}
	return nil
}

// UpdateCategory updates name, description and active flag.
func (r *FeeRepository) UpdateCategory(ctx context.Context, category *models.FeeCategory) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE fee_categories SET name = :name, description = :description, is_active = :is_active, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("update fee category: %w", err)
	}
	return nil
}

// CategoryHasPaidStructures reports whether any structure referencing the
// category has recorded payments. Such categories may only be soft-disabled.
func (r *FeeRepository) CategoryHasPaidStructures(ctx context.Context, categoryID string) (bool, error) {
	const query = `SELECT EXISTS (
SELECT 1 FROM fee_structures fs
JOIN fee_payments fp ON fp.academic_year = fs.academic_year
JOIN enrollments e ON e.student_id = fp.student_id AND e.academic_year = fs.academic_year AND e.class_id = fs.class_id
WHERE fs.fee_category_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, categoryID); err != nil {
		return false, fmt.Errorf("check category references: %w", err)
	}
	return exists, nil
}

// ListStructures returns structures matching the filter, joined with their
// category names.
func (r *FeeRepository) ListStructures(ctx context.Context, filter models.FeeStructureFilter) ([]models.FeeStructureDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("fs.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.FeeCategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("fs.fee_category_id = $%d", len(args)+1))
		args = append(args, filter.FeeCategoryID)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("fs.academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}

	query := `SELECT fs.id, fs.class_id, fs.fee_category_id, fs.academic_year, fs.amount, fs.created_at, fs.updated_at,
fc.name AS category_name, fc.is_active AS category_active
FROM fee_structures fs
JOIN fee_categories fc ON fc.id = fs.fee_category_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY fc.name ASC"

	var structures []models.FeeStructureDetail
	if err := r.db.SelectContext(ctx, &structures, query, args...); err != nil {
		return nil, fmt.Errorf("list fee structures: %w", err)
	}
	return structures, nil
}

// ListStructuresForClassYear returns every structure for a class and
// academic year ordered by category name. The ledger treats these as the
// complete catalog for base fee resolution.
func (r *FeeRepository) ListStructuresForClassYear(ctx context.Context, classID, academicYear string) ([]models.FeeStructureDetail, error) {
	return r.ListStructures(ctx, models.FeeStructureFilter{ClassID: classID, AcademicYear: academicYear})
}

// CreateStructure persists a new fee structure. The (class, category, year)
// triple is unique; violations surface as pq unique errors for the service
// layer to translate.
func (r *FeeRepository) CreateStructure(ctx context.Context, structure *models.FeeStructure) error {
	if structure.ID == "" {
		structure.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	structure.CreatedAt = now
	structure.UpdatedAt = now
	const query = `INSERT INTO fee_structures (id, class_id, fee_category_id, academic_year, amount, created_at, updated_at)
VALUES (:id, :class_id, :fee_category_id, :academic_year, :amount, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, structure); err != nil {
		return fmt.Errorf("create fee structure: %w", err)
	}
	return nil
}

// UpdateStructureAmount changes the amount for an existing structure.
func (r *FeeRepository) UpdateStructureAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	const query = `UPDATE fee_structures SET amount = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, amount, time.Now().UTC()); err != nil {
		return fmt.Errorf("update fee structure: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pqUniqueViolation
}
