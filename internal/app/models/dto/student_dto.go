package dto

import "github.com/oguzk/schoolatlas/internal/app/models"

// EnrollmentPayload is one entry of the JSON 'enrollments' form field sent
// with student create/update requests. SchoolID is mandatory; Status
// defaults to "current" when omitted.
type EnrollmentPayload struct {
	SchoolID  int64  `json:"schoolId"`
	Status    string `json:"status"`
	StartYear int    `json:"startYear"`
	EndYear   *int   `json:"endYear"`
}

// AchievementPayload is one entry of the JSON 'achievements' form field.
// Description is accepted for forward compatibility but not persisted.
type AchievementPayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// StudentInfo is the student block of the detail response. PhotoPath is
// never empty; it falls back to the default avatar.
type StudentInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Grade     string `json:"grade"`
	PhotoPath string `json:"photo_path"`
}

// StudentSchool is one school the student has an enrollment record with,
// annotated with that enrollment's period.
type StudentSchool struct {
	ID        int64                   `json:"id"`
	Name      string                  `json:"name"`
	Status    models.EnrollmentStatus `json:"status"`
	StartYear int                     `json:"start_year"`
	EndYear   *int                    `json:"end_year"`
}

// StudentDetailResponse is the body of GET /students/{id}.
type StudentDetailResponse struct {
	Student      StudentInfo           `json:"student"`
	Schools      []StudentSchool       `json:"schools"`
	Achievements []AchievementResponse `json:"achievements"`
}

// CreateStudentInput is the decoded multipart payload for POST /students.
// The controller parses the raw form fields into this structure; the photo
// file travels separately.
type CreateStudentInput struct {
	Name         string
	Age          int
	Grade        string
	Enrollments  []EnrollmentPayload
	Achievements []AchievementPayload
}

// UpdateStudentInput is the decoded multipart payload for PUT /students/{id}.
// Nil Enrollments means "leave the enrollment set unchanged"; the same
// convention applies to Achievements.
type UpdateStudentInput struct {
	Name         string
	Age          int
	Grade        string
	Enrollments  []EnrollmentPayload
	Achievements []AchievementPayload
}
