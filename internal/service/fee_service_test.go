package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fee-api/internal/models"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

type fakeFeeStore struct {
	categories       []models.FeeCategory
	category         *models.FeeCategory
	categoryErr      error
	structures       []models.FeeStructureDetail
	createCatErr     error
	createStructErr  error
	hasPaid          bool
	createdStructure *models.FeeStructure
}

func (f *fakeFeeStore) ListCategories(context.Context, models.FeeCategoryFilter) ([]models.FeeCategory, error) {
	return f.categories, nil
}

func (f *fakeFeeStore) FindCategoryByID(context.Context, string) (*models.FeeCategory, error) {
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return f.category, nil
}

func (f *fakeFeeStore) CreateCategory(_ context.Context, category *models.FeeCategory) error {
	if f.createCatErr != nil {
		return f.createCatErr
	}
	category.ID = "cat-new"
	return nil
}

func (f *fakeFeeStore) UpdateCategory(context.Context, *models.FeeCategory) error {
	return nil
}

func (f *fakeFeeStore) CategoryHasPaidStructures(context.Context, string) (bool, error) {
	return f.hasPaid, nil
}

func (f *fakeFeeStore) ListStructures(context.Context, models.FeeStructureFilter) ([]models.FeeStructureDetail, error) {
	return f.structures, nil
}

func (f *fakeFeeStore) CreateStructure(_ context.Context, structure *models.FeeStructure) error {
	if f.createStructErr != nil {
		return f.createStructErr
	}
	structure.ID = "fs-new"
	f.createdStructure = structure
	return nil
}

func (f *fakeFeeStore) UpdateStructureAmount(context.Context, string, decimal.Decimal) error {
	return nil
}

func TestFeeServiceCreateStructure(t *testing.T) {
	store := &fakeFeeStore{category: &models.FeeCategory{ID: "cat-1", Name: "Tuition", IsActive: true}}
	svc := NewFeeService(FeeServiceParams{Repo: store})

	structure, err := svc.CreateStructure(context.Background(), CreateFeeStructureRequest{
		ClassID:       "class-10a",
		FeeCategoryID: "cat-1",
		AcademicYear:  "2025-2026",
		Amount:        dec("800"),
	})
	require.NoError(t, err)
	assert.Equal(t, "fs-new", structure.ID)
	assert.True(t, store.createdStructure.Amount.Equal(dec("800")))
}

func TestFeeServiceCreateStructureDuplicateTriple(t *testing.T) {
	store := &fakeFeeStore{
		category:        &models.FeeCategory{ID: "cat-1", Name: "Tuition", IsActive: true},
		createStructErr: &pq.Error{Code: "23505"},
	}
	svc := NewFeeService(FeeServiceParams{Repo: store})

	_, err := svc.CreateStructure(context.Background(), CreateFeeStructureRequest{
		ClassID:       "class-10a",
		FeeCategoryID: "cat-1",
		AcademicYear:  "2025-2026",
		Amount:        dec("800"),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateStructure.Code, appErr.Code)
}

func TestFeeServiceCreateStructureRejectsInactiveCategory(t *testing.T) {
	store := &fakeFeeStore{category: &models.FeeCategory{ID: "cat-1", Name: "Tuition", IsActive: false}}
	svc := NewFeeService(FeeServiceParams{Repo: store})

	_, err := svc.CreateStructure(context.Background(), CreateFeeStructureRequest{
		ClassID:       "class-10a",
		FeeCategoryID: "cat-1",
		AcademicYear:  "2025-2026",
		Amount:        dec("800"),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFeeServiceCreateStructureRejectsBadInput(t *testing.T) {
	store := &fakeFeeStore{category: &models.FeeCategory{ID: "cat-1", Name: "Tuition", IsActive: true}}
	svc := NewFeeService(FeeServiceParams{Repo: store})

	cases := []struct {
		name string
		req  CreateFeeStructureRequest
	}{
		{"negative amount", CreateFeeStructureRequest{ClassID: "class-10a", FeeCategoryID: "cat-1", AcademicYear: "2025-2026", Amount: dec("-1")}},
		{"malformed year", CreateFeeStructureRequest{ClassID: "class-10a", FeeCategoryID: "cat-1", AcademicYear: "2025", Amount: dec("800")}},
		{"missing class", CreateFeeStructureRequest{FeeCategoryID: "cat-1", AcademicYear: "2025-2026", Amount: dec("800")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateStructure(context.Background(), tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

func TestFeeServiceDeactivateCategoryInUse(t *testing.T) {
	store := &fakeFeeStore{
		category: &models.FeeCategory{ID: "cat-1", Name: "Tuition", IsActive: true},
		hasPaid:  true,
	}
	svc := NewFeeService(FeeServiceParams{Repo: store})

	_, err := svc.UpdateCategory(context.Background(), "cat-1", UpdateFeeCategoryRequest{
		Name:     "Tuition",
		IsActive: false,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCategoryInUse.Code, appErr.Code)
}

func TestFeeServiceDeactivateUnusedCategory(t *testing.T) {
	store := &fakeFeeStore{
		category: &models.FeeCategory{ID: "cat-1", Name: "Tuition", IsActive: true},
		hasPaid:  false,
	}
	svc := NewFeeService(FeeServiceParams{Repo: store})

	category, err := svc.UpdateCategory(context.Background(), "cat-1", UpdateFeeCategoryRequest{
		Name:     "Tuition",
		IsActive: false,
	})
	require.NoError(t, err)
	assert.False(t, category.IsActive)
}
