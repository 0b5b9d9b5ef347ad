package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	SchoolRepository      *SchoolRepository
	StudentRepository     *StudentRepository
	EnrollmentRepository  *EnrollmentRepository
	AchievementRepository *AchievementRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		SchoolRepository:      NewSchoolRepository(db),
		StudentRepository:     NewStudentRepository(db),
		EnrollmentRepository:  NewEnrollmentRepository(db),
		AchievementRepository: NewAchievementRepository(db),
	}
}
