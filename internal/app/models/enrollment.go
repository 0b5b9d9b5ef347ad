package models

// EnrollmentStatus distinguishes an active enrollment from a historical one.
type EnrollmentStatus string

const (
	EnrollmentCurrent EnrollmentStatus = "current"
	EnrollmentPast    EnrollmentStatus = "past"
)

// IsValid reports whether s is a known enrollment status.
func (s EnrollmentStatus) IsValid() bool {
	return s == EnrollmentCurrent || s == EnrollmentPast
}

// EnrollmentWithStudent is an enrollment row joined with the enrolled
// student's fields, used by the school detail view.
type EnrollmentWithStudent struct {
	Enrollment
	StudentName  string `db:"student_name"`
	StudentAge   int    `db:"student_age"`
	StudentGrade string `db:"student_grade"`
}

// EnrollmentWithSchool is an enrollment row joined with the school name,
// used by the student detail view.
type EnrollmentWithSchool struct {
	Enrollment
	SchoolName string `db:"school_name"`
}

// Enrollment links one student to one school for a period of time.
// EndYear is nil for open-ended (current) enrollments.
type Enrollment struct {
	ID        int64            `json:"id" db:"id"`
	StudentID int64            `json:"student_id" db:"student_id"`
	SchoolID  int64            `json:"school_id" db:"school_id"`
	Status    EnrollmentStatus `json:"status" db:"status"`
	StartYear int              `json:"start_year" db:"start_year"`
	EndYear   *int             `json:"end_year" db:"end_year"`
}
