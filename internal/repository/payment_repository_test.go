package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

func newPaymentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPaymentRepositoryCreateReceiptCommitsAllRows(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	payments := []models.FeePayment{
		{StudentID: "stu-1", FeeMonth: "2025-04", AmountPaid: decimal.NewFromInt(100), PaymentMethod: models.PaymentMethodCash, ReceiptNumber: "RCPT-2025-AAAA2222", AcademicYear: "2025-2026"},
		{StudentID: "stu-1", FeeMonth: "2025-05", AmountPaid: decimal.NewFromInt(100), PaymentMethod: models.PaymentMethodCash, ReceiptNumber: "RCPT-2025-AAAA2222", AcademicYear: "2025-2026"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fee_payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO fee_payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateReceipt(context.Background(), payments))
	require.NoError(t, mock.ExpectationsWereMet())
	require.NotEmpty(t, payments[0].ID)
	require.False(t, payments[0].PaymentDate.IsZero())
}

func TestPaymentRepositoryCreateReceiptRollsBackOnUniqueViolation(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	payments := []models.FeePayment{
		{StudentID: "stu-1", FeeMonth: "2025-04", AmountPaid: decimal.NewFromInt(100), PaymentMethod: models.PaymentMethodCash, ReceiptNumber: "RCPT-2025-AAAA2222", AcademicYear: "2025-2026"},
		{StudentID: "stu-1", FeeMonth: "2025-05", AmountPaid: decimal.NewFromInt(100), PaymentMethod: models.PaymentMethodCash, ReceiptNumber: "RCPT-2025-AAAA2222", AcademicYear: "2025-2026"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fee_payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO fee_payments").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreateReceipt(context.Background(), payments)
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListByReceipt(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "fee_month", "amount_paid", "payment_date", "payment_method", "receipt_number", "academic_year", "remarks"}).
		AddRow("pay-1", "stu-1", "2025-04", "100", time.Now(), "CASH", "RCPT-2025-AAAA2222", "2025-2026", "").
		AddRow("pay-2", "stu-1", "2025-05", "100", time.Now(), "CASH", "RCPT-2025-AAAA2222", "2025-2026", "")
	mock.ExpectQuery("SELECT (.+) FROM fee_payments WHERE receipt_number").
		WithArgs("RCPT-2025-AAAA2222").
		WillReturnRows(rows)

	payments, err := repo.ListByReceipt(context.Background(), "RCPT-2025-AAAA2222")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListRecentJoinsStudentName(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "fee_month", "amount_paid", "payment_date", "payment_method", "receipt_number", "academic_year", "remarks", "student_name"}).
		AddRow("pay-1", "stu-1", "2025-04", "100", time.Now(), "CASH", "RCPT-2025-AAAA2222", "2025-2026", "", "Ananya Rao")
	mock.ExpectQuery("SELECT (.+) FROM fee_payments fp").
		WithArgs(20).
		WillReturnRows(rows)

	payments, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, "Ananya Rao", payments[0].StudentName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListFiltersAndCounts(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "fee_month", "amount_paid", "payment_date", "payment_method", "receipt_number", "academic_year", "remarks", "student_name"}).
		AddRow("pay-1", "stu-1", "2025-04", "100", time.Now(), "CASH", "RCPT-2025-AAAA2222", "2025-2026", "", "Ananya Rao")
	mock.ExpectQuery("SELECT fp.id, (.+) FROM fee_payments fp").
		WithArgs("stu-1", "2025-2026").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("stu-1", "2025-2026").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	payments, total, err := repo.List(context.Background(), models.PaymentFilter{StudentID: "stu-1", AcademicYear: "2025-2026"})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
