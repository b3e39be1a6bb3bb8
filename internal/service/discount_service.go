package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type discountStore interface {
	ListCategories(ctx context.Context, filter models.DiscountCategoryFilter) ([]models.DiscountCategory, error)
	FindCategoryByID(ctx context.Context, id string) (*models.DiscountCategory, error)
	CreateCategory(ctx context.Context, category *models.DiscountCategory) error
	UpdateCategory(ctx context.Context, category *models.DiscountCategory) error
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentDiscountDetail, error)
	CreateAssignment(ctx context.Context, assignment *models.StudentDiscountAssignment) error
	SetAssignmentActive(ctx context.Context, id string, active bool) error
}

// CreateDiscountCategoryRequest is the payload for creating a discount
// category.
type CreateDiscountCategoryRequest struct {
	Name            string                     `json:"name" validate:"required,min=2,max=100"`
	Type            models.DiscountType        `json:"type" validate:"required,oneof=FLAT PERCENTAGE"`
	Value           decimal.Decimal            `json:"value"`
	ApplicationType models.DiscountApplication `json:"application_type" validate:"required,oneof=MANUAL AUTO"`
	LogicReference  string                     `json:"logic_reference"`
}

// UpdateDiscountCategoryRequest is the payload for updating a discount
// category.
type UpdateDiscountCategoryRequest struct {
	Name            string                     `json:"name" validate:"required,min=2,max=100"`
	Type            models.DiscountType        `json:"type" validate:"required,oneof=FLAT PERCENTAGE"`
	Value           decimal.Decimal            `json:"value"`
	ApplicationType models.DiscountApplication `json:"application_type" validate:"required,oneof=MANUAL AUTO"`
	LogicReference  string                     `json:"logic_reference"`
	IsActive        bool                       `json:"is_active"`
}

// AssignDiscountRequest links a discount category to a student.
type AssignDiscountRequest struct {
	StudentID          string `json:"student_id" validate:"required"`
	DiscountCategoryID string `json:"discount_category_id" validate:"required"`
}

// DiscountService manages discount categories and per-student assignments.
// Assignments only mark eligibility; the ledger applies the arithmetic.
type DiscountService struct {
	repo     discountStore
	students studentFinder
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

// DiscountServiceParams groups constructor dependencies.
type DiscountServiceParams struct {
	Repo     discountStore
	Students studentFinder
	Cache    *CacheService
	Validate *validator.Validate
	Logger   *zap.Logger
}

// NewDiscountService constructs a DiscountService.
func NewDiscountService(params DiscountServiceParams) *DiscountService {
	validate := params.Validate
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscountService{
		repo:     params.Repo,
		students: params.Students,
		cache:    params.Cache,
		validate: validate,
		logger:   logger,
	}
}

// ListCategories returns discount categories matching the filter.
func (s *DiscountService) ListCategories(ctx context.Context, filter models.DiscountCategoryFilter) ([]models.DiscountCategory, error) {
	categories, err := s.repo.ListCategories(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list discount categories")
	}
	return categories, nil
}

// GetCategory returns a single discount category.
func (s *DiscountService) GetCategory(ctx context.Context, id string) (*models.DiscountCategory, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "discount category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discount category")
	}
	return category, nil
}

// CreateCategory creates a discount category.
func (s *DiscountService) CreateCategory(ctx context.Context, req CreateDiscountCategoryRequest) (*models.DiscountCategory, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discount category payload")
	}
	if err := validateDiscountValue(req.Type, req.Value); err != nil {
		return nil, err
	}
	category := &models.DiscountCategory{
		Name:            req.Name,
		Type:            req.Type,
		Value:           req.Value,
		ApplicationType: req.ApplicationType,
		LogicReference:  req.LogicReference,
		IsActive:        true,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create discount category")
	}
	s.invalidateDashboards(ctx)
	return category, nil
}

// UpdateCategory updates a discount category. Deactivating a category does
// not delete its assignments; they simply stop contributing until the
// category is re-enabled.
func (s *DiscountService) UpdateCategory(ctx context.Context, id string, req UpdateDiscountCategoryRequest) (*models.DiscountCategory, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discount category payload")
	}
	if err := validateDiscountValue(req.Type, req.Value); err != nil {
		return nil, err
	}
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Type = req.Type
	category.Value = req.Value
	category.ApplicationType = req.ApplicationType
	category.LogicReference = req.LogicReference
	category.IsActive = req.IsActive
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update discount category")
	}
	s.invalidateDashboards(ctx)
	return category, nil
}

// ListStudentAssignments returns every assignment for a student, active or
// not, joined with category details.
func (s *DiscountService) ListStudentAssignments(ctx context.Context, studentID string) ([]models.StudentDiscountDetail, error) {
	assignments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list discount assignments")
	}
	return assignments, nil
}

// AssignToStudent links a discount category to a student.
func (s *DiscountService) AssignToStudent(ctx context.Context, req AssignDiscountRequest) (*models.StudentDiscountAssignment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discount assignment payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	category, err := s.GetCategory(ctx, req.DiscountCategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "discount category is inactive")
	}

	assignment := &models.StudentDiscountAssignment{
		StudentID:          req.StudentID,
		DiscountCategoryID: req.DiscountCategoryID,
		IsActive:           true,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign discount")
	}
	s.invalidateDashboards(ctx)
	s.logger.Info("discount assigned",
		zap.String("student_id", req.StudentID),
		zap.String("discount_category_id", req.DiscountCategoryID))
	return assignment, nil
}

// SetAssignmentActive toggles an assignment without deleting it, so the
// assignment history stays auditable.
func (s *DiscountService) SetAssignmentActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetAssignmentActive(ctx, id, active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "discount assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle discount assignment")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *DiscountService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "finance:dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func validateDiscountValue(discountType models.DiscountType, value decimal.Decimal) error {
	if value.IsNegative() {
		return appErrors.Clone(appErrors.ErrValidation, "discount value must not be negative")
	}
	if discountType == models.DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return appErrors.Clone(appErrors.ErrValidation, "percentage discount cannot exceed 100")
	}
	return nil
}
