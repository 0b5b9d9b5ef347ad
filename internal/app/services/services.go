// Package services holds the business logic between the HTTP controllers
// and the repositories. Each service is constructed against small
// repository interfaces so tests can substitute fakes.
package services

import (
	"context"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/app/repositories"
)

// SchoolStore is the slice of the school repository the services need.
type SchoolStore interface {
	CreateIfAbsent(ctx context.Context, school *models.School) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.School, error)
	GetAllWithCounts(ctx context.Context) ([]*models.SchoolWithCounts, error)
	UpdateWebsite(ctx context.Context, id int64, website string) error
	SearchByName(ctx context.Context, query string) ([]*models.School, error)
}

// StudentStore is the slice of the student repository the services need.
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	CreateWithRelations(ctx context.Context, student *models.Student, enrollments []*models.Enrollment, achievements []*models.Achievement, attachPhoto repositories.PhotoAttachFn) (int64, error)
	UpdateWithRelations(ctx context.Context, id int64, update repositories.StudentUpdate) error
	SearchByName(ctx context.Context, query string) ([]*models.Student, error)
}

// EnrollmentStore reads enrollment rows joined with their counterparts.
type EnrollmentStore interface {
	ListBySchoolWithStudents(ctx context.Context, schoolID int64) ([]*models.EnrollmentWithStudent, error)
	ListByStudentWithSchools(ctx context.Context, studentID int64) ([]*models.EnrollmentWithSchool, error)
}

// AchievementStore is the slice of the achievement repository the services need.
type AchievementStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Achievement, error)
	Create(ctx context.Context, achievement *models.Achievement) (int64, error)
	Delete(ctx context.Context, id int64) error
}
