package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

// StudentRepository reads the roster data the billing engine depends on.
// Student, enrollment and subject CRUD belongs to the roster system; only
// the lookups the fee ledger needs live here.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by its ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, nis, full_name, active, created_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ResolveEnrollment returns the enrollment record binding a student to a
// class for an academic year. Callers map sql.ErrNoRows to a missing
// enrollment.
func (r *StudentRepository) ResolveEnrollment(ctx context.Context, studentID, academicYear string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, class_id, academic_year, joined_at
FROM enrollments WHERE student_id = $1 AND academic_year = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, academicYear); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListOptedSubjects returns the student's opted subjects in their recorded
// order, each with its optional fee category mapping. Order is significant
// for base fee resolution.
func (r *StudentRepository) ListOptedSubjects(ctx context.Context, studentID string) ([]models.OptedSubject, error) {
	const query = `SELECT os.subject_id, s.name AS subject_name, s.fee_category_id, os.position
FROM opted_subjects os
JOIN subjects s ON s.id = os.subject_id
WHERE os.student_id = $1
ORDER BY os.position ASC, os.subject_id ASC`
	var subjects []models.OptedSubject
	if err := r.db.SelectContext(ctx, &subjects, query, studentID); err != nil {
		return nil, fmt.Errorf("list opted subjects: %w", err)
	}
	return subjects, nil
}

// ListEnrolledStudents returns the distinct student IDs enrolled for the
// given academic year.
func (r *StudentRepository) ListEnrolledStudents(ctx context.Context, academicYear string) ([]string, error) {
	const query = `SELECT DISTINCT student_id FROM enrollments WHERE academic_year = $1 ORDER BY student_id ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, academicYear); err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	return ids, nil
}
