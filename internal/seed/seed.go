// Package seed fills an empty database with a small set of example
// schools, students and enrollments so the map view has something to show
// on first start.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/app/repositories"
)

func ptr[T any](v T) *T { return &v }

type seedSchool struct {
	name      string
	typ       models.SchoolType
	latitude  float64
	longitude float64
	website   string
}

type seedStudent struct {
	name  string
	age   int
	grade string
	// enrollments reference schools by position in the school list
	enrollments []seedEnrollment
}

type seedEnrollment struct {
	schoolIndex int
	status      models.EnrollmentStatus
	startYear   int
	endYear     *int
}

var defaultSchools = []seedSchool{
	{"Harvard University", models.SchoolTypeUniversity, 42.3770, -71.1167, "https://www.harvard.edu"},
	{"MIT", models.SchoolTypeUniversity, 42.3601, -71.0942, "https://www.mit.edu"},
	{"Boston High School", models.SchoolTypeHighschool, 42.3605, -71.0590, "https://bostonpublicschools.org"},
	{"Cambridge High School", models.SchoolTypeHighschool, 42.3732, -71.1190, "https://cambridgepublicschools.org"},
}

var defaultStudents = []seedStudent{
	{"Alice", 18, "12th Grade", []seedEnrollment{{2, models.EnrollmentCurrent, 2022, nil}}},
	{"Bob", 20, "College Sophomore", []seedEnrollment{
		{0, models.EnrollmentCurrent, 2021, nil},
		{3, models.EnrollmentPast, 2017, ptr(2020)},
	}},
	{"Charlie", 17, "11th Grade", []seedEnrollment{{3, models.EnrollmentCurrent, 2022, nil}}},
	{"David", 22, "College Senior", []seedEnrollment{{1, models.EnrollmentCurrent, 2019, nil}}},
	{"Eve", 16, "10th Grade", []seedEnrollment{{2, models.EnrollmentCurrent, 2023, nil}}},
	{"Frank", 19, "College Freshman", []seedEnrollment{{0, models.EnrollmentCurrent, 2023, nil}}},
}

// CreateDefaultData seeds the default schools and, when no students exist
// yet, the default students with their enrollment history. School creation
// reuses the idempotent create-if-absent path, so re-running the seeder
// never duplicates rows.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	schoolRepo := repositories.NewSchoolRepository(dbPool)
	studentRepo := repositories.NewStudentRepository(dbPool)

	schoolIDs := make([]int64, len(defaultSchools))
	for i, s := range defaultSchools {
		id, err := schoolRepo.CreateIfAbsent(ctx, &models.School{
			Name:      s.name,
			Type:      s.typ,
			Latitude:  ptr(s.latitude),
			Longitude: ptr(s.longitude),
			Website:   ptr(s.website),
		})
		if err != nil {
			return fmt.Errorf("failed to seed school %q: %w", s.name, err)
		}
		schoolIDs[i] = id
	}

	count, err := studentRepo.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}
	if count > 0 {
		lgr.Debug().Int64("students", count).Msg("Students already present, skipping student seed")
		return nil
	}

	for _, st := range defaultStudents {
		enrollments := make([]*models.Enrollment, 0, len(st.enrollments))
		for _, e := range st.enrollments {
			enrollments = append(enrollments, &models.Enrollment{
				SchoolID:  schoolIDs[e.schoolIndex],
				Status:    e.status,
				StartYear: e.startYear,
				EndYear:   e.endYear,
			})
		}

		student := &models.Student{Name: st.name, Age: st.age, Grade: st.grade}
		if _, err := studentRepo.CreateWithRelations(ctx, student, enrollments, nil, nil); err != nil {
			return fmt.Errorf("failed to seed student %q: %w", st.name, err)
		}
	}

	lgr.Info().Int("schools", len(defaultSchools)).Int("students", len(defaultStudents)).Msg("Default data seeded")
	return nil
}
