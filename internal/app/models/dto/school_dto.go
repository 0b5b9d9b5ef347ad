package dto

import "github.com/oguzk/schoolatlas/internal/app/models"

// CreateSchoolRequest carries the form fields for school creation.
// Latitude/longitude/state are optional.
type CreateSchoolRequest struct {
	Name      string   `form:"name" binding:"required"`
	Type      string   `form:"type" binding:"required"`
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
	State     *string  `form:"state"`
}

// SchoolSummary is one element of the GET /schools listing. The student
// counts are computed from enrollment rows at read time.
type SchoolSummary struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Type            models.SchoolType `json:"type"`
	Latitude        *float64          `json:"latitude"`
	Longitude       *float64          `json:"longitude"`
	State           *string           `json:"state"`
	TotalStudents   int               `json:"total_students"`
	CurrentStudents int               `json:"current_students"`
}

// SchoolInfo is the school block of the detail response.
type SchoolInfo struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Type      models.SchoolType `json:"type"`
	Latitude  *float64          `json:"latitude"`
	Longitude *float64          `json:"longitude"`
	State     *string           `json:"state"`
}

// EnrolledStudent is a student annotated with one enrollment at the school.
// A student with several enrollments at the same school appears once per
// enrollment row.
type EnrolledStudent struct {
	ID        int64                   `json:"id"`
	Name      string                  `json:"name"`
	Age       int                     `json:"age"`
	Grade     string                  `json:"grade"`
	Status    models.EnrollmentStatus `json:"status"`
	StartYear int                     `json:"start_year"`
	EndYear   *int                    `json:"end_year"`
}

// SchoolDetailResponse is the body of GET /schools/{id}.
type SchoolDetailResponse struct {
	School   SchoolInfo        `json:"school"`
	Students []EnrolledStudent `json:"students"`
}

// WebsiteResponse is the body of POST /schools/{id}/detect-website.
// Website is null when no plausible result was found.
type WebsiteResponse struct {
	Website *string `json:"website"`
}

// NewSchoolInfo builds a SchoolInfo from a school model.
func NewSchoolInfo(s *models.School) SchoolInfo {
	return SchoolInfo{
		ID:        s.ID,
		Name:      s.Name,
		Type:      s.Type,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		State:     s.State,
	}
}
