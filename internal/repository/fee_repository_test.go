package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

func newFeeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestFeeRepositoryListStructuresForClassYear(t *testing.T) {
	db, mock, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "fee_category_id", "academic_year", "amount", "created_at", "updated_at", "category_name", "category_active"}).
		AddRow("fs-1", "class-10a", "cat-1", "2025-2026", "800", time.Now(), time.Now(), "Tuition", true).
		AddRow("fs-2", "class-10a", "cat-2", "2025-2026", "200", time.Now(), time.Now(), "Lab", true)
	mock.ExpectQuery("SELECT fs.id, (.+) FROM fee_structures fs").
		WithArgs("class-10a", "2025-2026").
		WillReturnRows(rows)

	structures, err := repo.ListStructuresForClassYear(context.Background(), "class-10a", "2025-2026")
	require.NoError(t, err)
	require.Len(t, structures, 2)
	require.Equal(t, "Tuition", structures[0].CategoryName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryCreateStructureSurfacesUniqueViolation(t *testing.T) {
	db, mock, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectExec("INSERT INTO fee_structures").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateStructure(context.Background(), &models.FeeStructure{
		ClassID:       "class-10a",
		FeeCategoryID: "cat-1",
		AcademicYear:  "2025-2026",
		Amount:        decimal.NewFromInt(800),
	})
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryCreateCategoryAssignsID(t *testing.T) {
	db, mock, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectExec("INSERT INTO fee_categories").
		WillReturnResult(sqlmock.NewResult(1, 1))

	category := &models.FeeCategory{Name: "Transport", IsActive: true}
	require.NoError(t, repo.CreateCategory(context.Background(), category))
	require.NotEmpty(t, category.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryCategoryHasPaidStructures(t *testing.T) {
	db, mock, cleanup := newFeeRepoMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("cat-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	inUse, err := repo.CategoryHasPaidStructures(context.Background(), "cat-1")
	require.NoError(t, err)
	require.True(t, inUse)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	require.False(t, IsUniqueViolation(context.Canceled))
	require.False(t, IsUniqueViolation(nil))
}
