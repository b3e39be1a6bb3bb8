package models

import "time"

// Student represents a learner registered in the institution. Only the
// fields the billing engine reads are modelled here; roster management
// lives in a separate system.
type Student struct {
	ID        string    `db:"id" json:"id"`
	NIS       string    `db:"nis" json:"nis"`
	FullName  string    `db:"full_name" json:"full_name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Enrollment records a student's membership of a class for one academic
// year. The ledger resolves a student's class through this record, never
// through cached class fields on the student row.
type Enrollment struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	JoinedAt     time.Time `db:"joined_at" json:"joined_at"`
}

// OptedSubject is a subject a student has opted into, optionally mapped to
// a fee category. Ordering matters: the ledger walks opted subjects in
// their recorded position and the first subject referencing a category
// claims it.
type OptedSubject struct {
	SubjectID     string  `db:"subject_id" json:"subject_id"`
	SubjectName   string  `db:"subject_name" json:"subject_name"`
	FeeCategoryID *string `db:"fee_category_id" json:"fee_category_id,omitempty"`
	Position      int     `db:"position" json:"position"`
}
