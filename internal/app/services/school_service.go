package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
	"github.com/oguzk/schoolatlas/internal/pkg/weblookup"
)

// SchoolService defines the interface for school-related operations
type SchoolService interface {
	CreateSchool(ctx context.Context, req dto.CreateSchoolRequest) (int64, error)
	GetAllSchools(ctx context.Context) ([]dto.SchoolSummary, error)
	GetSchoolDetail(ctx context.Context, id int64) (*dto.SchoolDetailResponse, error)
	DetectWebsite(ctx context.Context, id int64) (*string, error)
}

// schoolServiceImpl implements the SchoolService interface
type schoolServiceImpl struct {
	schoolRepo     SchoolStore
	enrollmentRepo EnrollmentStore
	finder         weblookup.Finder
}

// NewSchoolService creates a new school service instance
func NewSchoolService(schoolRepo SchoolStore, enrollmentRepo EnrollmentStore, finder weblookup.Finder) SchoolService {
	return &schoolServiceImpl{
		schoolRepo:     schoolRepo,
		enrollmentRepo: enrollmentRepo,
		finder:         finder,
	}
}

// CreateSchool creates a school, or returns the id of the existing school
// with the same name. Creating twice with the same name yields the same id.
func (s *schoolServiceImpl) CreateSchool(ctx context.Context, req dto.CreateSchoolRequest) (int64, error) {
	if strings.TrimSpace(req.Name) == "" {
		return 0, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	schoolType := models.SchoolType(req.Type)
	if !schoolType.IsValid() {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidSchoolType, req.Type)
	}

	school := &models.School{
		Name:      req.Name,
		Type:      schoolType,
		State:     req.State,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	id, err := s.schoolRepo.CreateIfAbsent(ctx, school)
	if err != nil {
		return 0, fmt.Errorf("error creating school: %w", err)
	}
	return id, nil
}

// GetAllSchools returns every school with its enrollment rollups.
func (s *schoolServiceImpl) GetAllSchools(ctx context.Context) ([]dto.SchoolSummary, error) {
	schools, err := s.schoolRepo.GetAllWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving schools: %w", err)
	}

	summaries := make([]dto.SchoolSummary, 0, len(schools))
	for _, sc := range schools {
		summaries = append(summaries, dto.SchoolSummary{
			ID:              sc.ID,
			Name:            sc.Name,
			Type:            sc.Type,
			Latitude:        sc.Latitude,
			Longitude:       sc.Longitude,
			State:           sc.State,
			TotalStudents:   sc.TotalStudents,
			CurrentStudents: sc.CurrentStudents,
		})
	}
	return summaries, nil
}

// GetSchoolDetail returns the school's fields plus one entry per enrollment
// row at the school, each annotated with the enrolled student's fields.
func (s *schoolServiceImpl) GetSchoolDetail(ctx context.Context, id int64) (*dto.SchoolDetailResponse, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListBySchoolWithStudents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving school enrollments: %w", err)
	}

	students := make([]dto.EnrolledStudent, 0, len(enrollments))
	for _, e := range enrollments {
		students = append(students, dto.EnrolledStudent{
			ID:        e.StudentID,
			Name:      e.StudentName,
			Age:       e.StudentAge,
			Grade:     e.StudentGrade,
			Status:    e.Status,
			StartYear: e.StartYear,
			EndYear:   e.EndYear,
		})
	}

	return &dto.SchoolDetailResponse{
		School:   dto.NewSchoolInfo(school),
		Students: students,
	}, nil
}

// DetectWebsite returns the school's stored website if present, otherwise
// runs the best-effort lookup and persists a hit. A lookup miss (including
// any network or parse failure) yields a nil website, never an error.
func (s *schoolServiceImpl) DetectWebsite(ctx context.Context, id int64) (*string, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if school.Website != nil && *school.Website != "" {
		return school.Website, nil
	}

	website, found := s.finder.Lookup(ctx, school.Name)
	if !found {
		return nil, nil
	}

	// Only the lookup itself is best-effort; failing to persist a hit is a
	// storage error like any other.
	if err := s.schoolRepo.UpdateWebsite(ctx, id, website); err != nil {
		return nil, fmt.Errorf("error persisting discovered website: %w", err)
	}

	return &website, nil
}
