package models

// Student represents a row in the 'students' table.
// PhotoPath is empty until a photo is uploaded; read paths resolve the empty
// value to the default avatar.
type Student struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Age       int    `json:"age" db:"age"`
	Grade     string `json:"grade" db:"grade"`
	PhotoPath string `json:"photo_path" db:"photo_path"`
}
