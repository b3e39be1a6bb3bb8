package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/models"
	"github.com/noah-isme/sma-fee-api/internal/repository"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type feeStore interface {
	ListCategories(ctx context.Context, filter models.FeeCategoryFilter) ([]models.FeeCategory, error)
	FindCategoryByID(ctx context.Context, id string) (*models.FeeCategory, error)
	CreateCategory(ctx context.Context, category *models.FeeCategory) error
	UpdateCategory(ctx context.Context, category *models.FeeCategory) error
	CategoryHasPaidStructures(ctx context.Context, categoryID string) (bool, error)
	ListStructures(ctx context.Context, filter models.FeeStructureFilter) ([]models.FeeStructureDetail, error)
	CreateStructure(ctx context.Context, structure *models.FeeStructure) error
	UpdateStructureAmount(ctx context.Context, id string, amount decimal.Decimal) error
}

// CreateFeeCategoryRequest is the payload for creating a fee category.
type CreateFeeCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateFeeCategoryRequest is the payload for updating a fee category.
type UpdateFeeCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsActive    bool   `json:"is_active"`
}

// CreateFeeStructureRequest binds a category to a class for an academic
// year with a monthly amount.
type CreateFeeStructureRequest struct {
	ClassID       string          `json:"class_id" validate:"required"`
	FeeCategoryID string          `json:"fee_category_id" validate:"required"`
	AcademicYear  string          `json:"academic_year" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// UpdateFeeStructureRequest changes the monthly amount of a structure.
type UpdateFeeStructureRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// FeeService manages fee categories and class fee structures.
type FeeService struct {
	repo     feeStore
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

// FeeServiceParams groups constructor dependencies.
type FeeServiceParams struct {
	Repo     feeStore
	Cache    *CacheService
	Validate *validator.Validate
	Logger   *zap.Logger
}

// NewFeeService constructs a FeeService.
func NewFeeService(params FeeServiceParams) *FeeService {
	validate := params.Validate
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{
		repo:     params.Repo,
		cache:    params.Cache,
		validate: validate,
		logger:   logger,
	}
}

// ListCategories returns fee categories matching the filter.
func (s *FeeService) ListCategories(ctx context.Context, filter models.FeeCategoryFilter) ([]models.FeeCategory, error) {
	categories, err := s.repo.ListCategories(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fee categories")
	}
	return categories, nil
}

// GetCategory returns a single fee category.
func (s *FeeService) GetCategory(ctx context.Context, id string) (*models.FeeCategory, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee category")
	}
	return category, nil
}

// CreateCategory creates a fee category. Names are unique.
func (s *FeeService) CreateCategory(ctx context.Context, req CreateFeeCategoryRequest) (*models.FeeCategory, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee category payload")
	}
	category := &models.FeeCategory{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a fee category with this name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee category")
	}
	s.invalidateDashboards(ctx)
	return category, nil
}

// UpdateCategory updates a fee category. Deactivating a category that has
// structures with recorded payments is rejected so historical ledgers keep
// resolving.
func (s *FeeService) UpdateCategory(ctx context.Context, id string, req UpdateFeeCategoryRequest) (*models.FeeCategory, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee category payload")
	}
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.IsActive && !req.IsActive {
		inUse, err := s.repo.CategoryHasPaidStructures(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category usage")
		}
		if inUse {
			return nil, appErrors.ErrCategoryInUse
		}
	}
	category.Name = req.Name
	category.Description = req.Description
	category.IsActive = req.IsActive
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a fee category with this name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update fee category")
	}
	s.invalidateDashboards(ctx)
	return category, nil
}

// ListStructures returns fee structures matching the filter.
func (s *FeeService) ListStructures(ctx context.Context, filter models.FeeStructureFilter) ([]models.FeeStructureDetail, error) {
	structures, err := s.repo.ListStructures(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fee structures")
	}
	return structures, nil
}

// CreateStructure binds a category to a class for an academic year. Each
// (class, category, year) triple may exist only once.
func (s *FeeService) CreateStructure(ctx context.Context, req CreateFeeStructureRequest) (*models.FeeStructure, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee structure payload")
	}
	if req.Amount.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must not be negative")
	}
	if _, err := academicYearStart(req.AcademicYear); err != nil {
		return nil, err
	}
	category, err := s.GetCategory(ctx, req.FeeCategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fee category is inactive")
	}

	structure := &models.FeeStructure{
		ClassID:       req.ClassID,
		FeeCategoryID: req.FeeCategoryID,
		AcademicYear:  req.AcademicYear,
		Amount:        req.Amount,
	}
	if err := s.repo.CreateStructure(ctx, structure); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateStructure
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee structure")
	}
	s.invalidateDashboards(ctx)
	s.logger.Info("fee structure created",
		zap.String("class_id", structure.ClassID),
		zap.String("fee_category_id", structure.FeeCategoryID),
		zap.String("academic_year", structure.AcademicYear))
	return structure, nil
}

// UpdateStructureAmount changes the monthly amount of an existing
// structure. Ledgers pick the new amount up on their next read.
func (s *FeeService) UpdateStructureAmount(ctx context.Context, id string, req UpdateFeeStructureRequest) error {
	if req.Amount.IsNegative() {
		return appErrors.Clone(appErrors.ErrValidation, "amount must not be negative")
	}
	if err := s.repo.UpdateStructureAmount(ctx, id, req.Amount); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update fee structure")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *FeeService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "finance:dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
