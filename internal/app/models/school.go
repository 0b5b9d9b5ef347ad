package models

// SchoolType is the kind of institution a school record describes.
type SchoolType string

const (
	SchoolTypeHighschool SchoolType = "highschool"
	SchoolTypeUniversity SchoolType = "university"
)

// IsValid reports whether t is one of the known school types.
func (t SchoolType) IsValid() bool {
	return t == SchoolTypeHighschool || t == SchoolTypeUniversity
}

// SchoolWithCounts is a school row joined with its enrollment rollups.
// TotalStudents counts every enrollment row referencing the school;
// CurrentStudents counts the subset with status "current".
type SchoolWithCounts struct {
	School
	TotalStudents   int `json:"total_students" db:"total_students"`
	CurrentStudents int `json:"current_students" db:"current_students"`
}

// School represents a row in the 'schools' table.
type School struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Type      SchoolType `json:"type" db:"type"`
	State     *string    `json:"state" db:"state"`
	Latitude  *float64   `json:"latitude" db:"latitude"`
	Longitude *float64   `json:"longitude" db:"longitude"`
	Website   *string    `json:"website,omitempty" db:"website"`
}
