package models

// Achievement is a titled accomplishment owned by exactly one student.
// Rows are cascade-deleted with the owning student.
type Achievement struct {
	ID        int64  `json:"id" db:"id"`
	StudentID int64  `json:"student_id" db:"student_id"`
	Title     string `json:"title" db:"title"`
}
