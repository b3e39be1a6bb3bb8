package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

// PaymentRepository persists immutable fee payment rows.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateReceipt inserts every payment row of a receipt inside one
// transaction, so a submission either lands completely or not at all.
// Receipt number uniqueness is enforced by the table constraint; a
// collision rolls the whole receipt back.
func (r *PaymentRepository) CreateReceipt(ctx context.Context, payments []models.FeePayment) error {
	if len(payments) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin receipt tx: %w", err)
	}
	const query = `INSERT INTO fee_payments (id, student_id, fee_month, amount_paid, payment_date, payment_method, receipt_number, academic_year, remarks)
VALUES (:id, :student_id, :fee_month, :amount_paid, :payment_date, :payment_method, :receipt_number, :academic_year, :remarks)`
	for i := range payments {
		if payments[i].ID == "" {
			payments[i].ID = uuid.NewString()
		}
		if payments[i].PaymentDate.IsZero() {
			payments[i].PaymentDate = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, query, payments[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert fee payment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit receipt tx: %w", err)
	}
	return nil
}

// ListByStudentYear returns every payment for a student within an academic
// year ordered by payment date. The ledger groups these by fee month.
func (r *PaymentRepository) ListByStudentYear(ctx context.Context, studentID, academicYear string) ([]models.FeePayment, error) {
	const query = `SELECT id, student_id, fee_month, amount_paid, payment_date, payment_method, receipt_number, academic_year, remarks
FROM fee_payments WHERE student_id = $1 AND academic_year = $2 ORDER BY payment_date ASC, id ASC`
	var payments []models.FeePayment
	if err := r.db.SelectContext(ctx, &payments, query, studentID, academicYear); err != nil {
		return nil, fmt.Errorf("list student payments: %w", err)
	}
	return payments, nil
}

// ListByReceipt returns all rows sharing a receipt number.
func (r *PaymentRepository) ListByReceipt(ctx context.Context, receiptNumber string) ([]models.FeePayment, error) {
	const query = `SELECT id, student_id, fee_month, amount_paid, payment_date, payment_method, receipt_number, academic_year, remarks
FROM fee_payments WHERE receipt_number = $1 ORDER BY fee_month ASC`
	var payments []models.FeePayment
	if err := r.db.SelectContext(ctx, &payments, query, receiptNumber); err != nil {
		return nil, fmt.Errorf("list receipt payments: %w", err)
	}
	return payments, nil
}

// ListRecent returns the most recently dated payments system-wide, joined
// with student names for dashboard display.
func (r *PaymentRepository) ListRecent(ctx context.Context, limit int) ([]models.FeePaymentDetail, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT fp.id, fp.student_id, fp.fee_month, fp.amount_paid, fp.payment_date, fp.payment_method, fp.receipt_number, fp.academic_year, fp.remarks,
s.full_name AS student_name
FROM fee_payments fp
JOIN students s ON s.id = fp.student_id
ORDER BY fp.payment_date DESC, fp.id DESC LIMIT $1`
	var payments []models.FeePaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, limit); err != nil {
		return nil, fmt.Errorf("list recent payments: %w", err)
	}
	return payments, nil
}

// List returns payments matching the filter with pagination.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.FeePaymentDetail, int, error) {
	base := `FROM fee_payments fp JOIN students s ON s.id = fp.student_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("fp.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("fp.academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.FeeMonth != "" {
		conditions = append(conditions, fmt.Sprintf("fp.fee_month = $%d", len(args)+1))
		args = append(args, filter.FeeMonth)
	}
	if filter.Method != "" {
		conditions = append(conditions, fmt.Sprintf("fp.payment_method = $%d", len(args)+1))
		args = append(args, filter.Method)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT fp.id, fp.student_id, fp.fee_month, fp.amount_paid, fp.payment_date, fp.payment_method, fp.receipt_number, fp.academic_year, fp.remarks,
s.full_name AS student_name
%s ORDER BY fp.payment_date DESC, fp.id DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var payments []models.FeePaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return payments, total, nil
}
