package dto

import "github.com/oguzk/schoolatlas/internal/app/models"

// SchoolHit is a school entry in the search result list.
type SchoolHit struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"` // always "school"
	State     *string  `json:"state"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// StudentHit is a student entry in the search result list.
type StudentHit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // always "student"
}

// NewSchoolHit builds a SchoolHit from a school model.
func NewSchoolHit(s *models.School) SchoolHit {
	return SchoolHit{
		ID:        s.ID,
		Name:      s.Name,
		Type:      "school",
		State:     s.State,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
}

// NewStudentHit builds a StudentHit from a student model.
func NewStudentHit(s *models.Student) StudentHit {
	return StudentHit{
		ID:   s.ID,
		Name: s.Name,
		Type: "student",
	}
}
