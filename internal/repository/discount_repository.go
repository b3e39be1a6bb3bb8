package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

// DiscountRepository persists discount categories and student assignments.
type DiscountRepository struct {
	db *sqlx.DB
}

// NewDiscountRepository constructs the repository.
func NewDiscountRepository(db *sqlx.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// ListCategories returns discount categories matching the filter.
func (r *DiscountRepository) ListCategories(ctx context.Context, filter models.DiscountCategoryFilter) ([]models.DiscountCategory, error) {
	var conditions []string
	var args []interface{}

	if filter.ApplicationType != "" {
		conditions = append(conditions, fmt.Sprintf("application_type = $%d", len(args)+1))
		args = append(args, filter.ApplicationType)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	query := `SELECT id, name, type, value, application_type, logic_reference, is_active, created_at, updated_at
FROM discount_categories`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"

	var categories []models.DiscountCategory
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("list discount categories: %w", err)
	}
	return categories, nil
}

// FindCategoryByID returns a discount category by its ID.
func (r *DiscountRepository) FindCategoryByID(ctx context.Context, id string) (*models.DiscountCategory, error) {
	const query = `SELECT id, name, type, value, application_type, logic_reference, is_active, created_at, updated_at
FROM discount_categories WHERE id = $1`
	var category models.DiscountCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory persists a new discount category.
func (r *DiscountRepository) CreateCategory(ctx context.Context, category *models.DiscountCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	const query = `INSERT INTO discount_categories (id, name, type, value, application_type, logic_reference, is_active, created_at, updated_at)
VALUES (:id, :name, :type, :value, :application_type, :logic_reference, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create discount category: %w", err)
	}
	return nil
}

// UpdateCategory updates the mutable fields of a discount category.
func (r *DiscountRepository) UpdateCategory(ctx context.Context, category *models.DiscountCategory) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE discount_categories
SET name = :name, type = :type, value = :value, application_type = :application_type,
    logic_reference = :logic_reference, is_active = :is_active, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("update discount category: %w", err)
	}
	return nil
}

// ListActiveByStudent returns the student's active assignments joined with
// their category definitions. Assignments whose category has been disabled
// are excluded from ledger computation.
func (r *DiscountRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]models.StudentDiscountDetail, error) {
	const query = `SELECT sda.id, sda.student_id, sda.discount_category_id, sda.is_active, sda.created_at, sda.updated_at,
dc.name AS category_name, dc.type, dc.value, dc.is_active AS category_active
FROM student_discount_assignments sda
JOIN discount_categories dc ON dc.id = sda.discount_category_id
WHERE sda.student_id = $1 AND sda.is_active = TRUE AND dc.is_active = TRUE
ORDER BY dc.name ASC`
	var details []models.StudentDiscountDetail
	if err := r.db.SelectContext(ctx, &details, query, studentID); err != nil {
		return nil, fmt.Errorf("list student discounts: %w", err)
	}
	return details, nil
}

// ListByStudent returns every assignment for a student regardless of state.
func (r *DiscountRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentDiscountDetail, error) {
	const query = `SELECT sda.id, sda.student_id, sda.discount_category_id, sda.is_active, sda.created_at, sda.updated_at,
dc.name AS category_name, dc.type, dc.value, dc.is_active AS category_active
FROM student_discount_assignments sda
JOIN discount_categories dc ON dc.id = sda.discount_category_id
WHERE sda.student_id = $1
ORDER BY dc.name ASC`
	var details []models.StudentDiscountDetail
	if err := r.db.SelectContext(ctx, &details, query, studentID); err != nil {
		return nil, fmt.Errorf("list student discount assignments: %w", err)
	}
	return details, nil
}

// CreateAssignment links a discount category to a student.
func (r *DiscountRepository) CreateAssignment(ctx context.Context, assignment *models.StudentDiscountAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	const query = `INSERT INTO student_discount_assignments (id, student_id, discount_category_id, is_active, created_at, updated_at)
VALUES (:id, :student_id, :discount_category_id, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create discount assignment: %w", err)
	}
	return nil
}

// SetAssignmentActive toggles an assignment's active flag.
func (r *DiscountRepository) SetAssignmentActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE student_discount_assignments SET is_active = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("toggle discount assignment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
