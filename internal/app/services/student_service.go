package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/app/repositories"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
	"github.com/oguzk/schoolatlas/internal/pkg/filestorage"
	"github.com/oguzk/schoolatlas/internal/pkg/logger"
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	GetStudentDetail(ctx context.Context, id int64) (*dto.StudentDetailResponse, error)
	CreateStudent(ctx context.Context, input dto.CreateStudentInput, photo *multipart.FileHeader) (int64, error)
	UpdateStudent(ctx context.Context, id int64, input dto.UpdateStudentInput, photo *multipart.FileHeader) (int64, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo     StudentStore
	enrollmentRepo  EnrollmentStore
	achievementRepo AchievementStore
	photos          filestorage.PhotoStorage
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo StudentStore,
	enrollmentRepo EnrollmentStore,
	achievementRepo AchievementStore,
	photos filestorage.PhotoStorage,
) StudentService {
	return &studentServiceImpl{
		studentRepo:     studentRepo,
		enrollmentRepo:  enrollmentRepo,
		achievementRepo: achievementRepo,
		photos:          photos,
	}
}

// buildEnrollments validates the enrollment payload entries and converts
// them to model rows. Status defaults to "current" when unspecified.
func buildEnrollments(payload []dto.EnrollmentPayload) ([]*models.Enrollment, error) {
	enrollments := make([]*models.Enrollment, 0, len(payload))
	for _, entry := range payload {
		if entry.SchoolID == 0 {
			return nil, apperrors.ErrEnrollmentNeedsSchool
		}
		if entry.StartYear == 0 {
			return nil, fmt.Errorf("%w: startYear is required", apperrors.ErrValidationFailed)
		}

		status := models.EnrollmentStatus(entry.Status)
		if entry.Status == "" {
			status = models.EnrollmentCurrent
		}
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: invalid enrollment status %q", apperrors.ErrValidationFailed, entry.Status)
		}

		enrollments = append(enrollments, &models.Enrollment{
			SchoolID:  entry.SchoolID,
			Status:    status,
			StartYear: entry.StartYear,
			EndYear:   entry.EndYear,
		})
	}
	return enrollments, nil
}

// buildAchievements validates the achievement payload entries and converts
// them to model rows.
func buildAchievements(payload []dto.AchievementPayload) ([]*models.Achievement, error) {
	achievements := make([]*models.Achievement, 0, len(payload))
	for _, entry := range payload {
		if strings.TrimSpace(entry.Title) == "" {
			return nil, fmt.Errorf("%w: achievement title cannot be empty", apperrors.ErrValidationFailed)
		}
		achievements = append(achievements, &models.Achievement{Title: entry.Title})
	}
	return achievements, nil
}

// validateStudentFields checks the scalar student fields shared by create
// and update.
func validateStudentFields(name string, age int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if age < 0 {
		return fmt.Errorf("%w: age cannot be negative", apperrors.ErrValidationFailed)
	}
	return nil
}

// GetStudentDetail returns the student's fields (photo path resolved to the
// default avatar when absent), the per-enrollment school history and the
// achievement list.
func (s *studentServiceImpl) GetStudentDetail(ctx context.Context, id int64) (*dto.StudentDetailResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListByStudentWithSchools(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student enrollments: %w", err)
	}

	achievements, err := s.achievementRepo.ListByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student achievements: %w", err)
	}

	schools := make([]dto.StudentSchool, 0, len(enrollments))
	for _, e := range enrollments {
		schools = append(schools, dto.StudentSchool{
			ID:        e.SchoolID,
			Name:      e.SchoolName,
			Status:    e.Status,
			StartYear: e.StartYear,
			EndYear:   e.EndYear,
		})
	}

	achievementList := make([]dto.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		achievementList = append(achievementList, dto.AchievementResponse{ID: a.ID, Title: a.Title})
	}

	return &dto.StudentDetailResponse{
		Student: dto.StudentInfo{
			ID:        student.ID,
			Name:      student.Name,
			Age:       student.Age,
			Grade:     student.Grade,
			PhotoPath: s.photos.ResolveDisplayPath(student.PhotoPath),
		},
		Schools:      schools,
		Achievements: achievementList,
	}, nil
}

// CreateStudent inserts a student together with its enrollment and
// achievement rows in one transaction. At least one enrollment is required.
// The photo, if any, is written inside that transaction once the generated
// id is known: a failed file write rolls every row back, so no student row
// ever references a photo that was not written and no partial student
// survives a storage failure.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, input dto.CreateStudentInput, photo *multipart.FileHeader) (int64, error) {
	if err := validateStudentFields(input.Name, input.Age); err != nil {
		return 0, err
	}
	if len(input.Enrollments) == 0 {
		return 0, apperrors.ErrEnrollmentsRequired
	}

	enrollments, err := buildEnrollments(input.Enrollments)
	if err != nil {
		return 0, err
	}

	achievements, err := buildAchievements(input.Achievements)
	if err != nil {
		return 0, err
	}

	student := &models.Student{
		Name:  input.Name,
		Age:   input.Age,
		Grade: input.Grade,
	}

	var attachPhoto repositories.PhotoAttachFn
	if photo != nil && photo.Filename != "" {
		attachPhoto = func(id int64) (string, error) {
			return s.photos.SavePhoto(id, photo)
		}
	}

	id, err := s.studentRepo.CreateWithRelations(ctx, student, enrollments, achievements, attachPhoto)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateStudent updates a student's fields and, when the corresponding
// payload is present, replaces its enrollment and achievement sets
// wholesale within one transaction. An absent achievements payload leaves
// the stored achievements untouched. A new photo is stored before the
// database update; the previous file is removed only after the update
// committed.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, input dto.UpdateStudentInput, photo *multipart.FileHeader) (int64, error) {
	if err := validateStudentFields(input.Name, input.Age); err != nil {
		return 0, err
	}

	existing, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	update := repositories.StudentUpdate{
		Name:  input.Name,
		Age:   input.Age,
		Grade: input.Grade,
	}

	if input.Enrollments != nil {
		if len(input.Enrollments) == 0 {
			return 0, apperrors.ErrEnrollmentsRequired
		}
		enrollments, err := buildEnrollments(input.Enrollments)
		if err != nil {
			return 0, err
		}
		update.Enrollments = enrollments
		update.ReplaceEnrollments = true
	}

	if input.Achievements != nil {
		achievements, err := buildAchievements(input.Achievements)
		if err != nil {
			return 0, err
		}
		update.Achievements = achievements
		update.ReplaceAchievements = true
	}

	var newPhotoPath string
	if photo != nil && photo.Filename != "" {
		newPhotoPath, err = s.photos.SavePhoto(id, photo)
		if err != nil {
			return 0, fmt.Errorf("error storing student photo: %w", err)
		}
		update.PhotoPath = &newPhotoPath
	}

	if err := s.studentRepo.UpdateWithRelations(ctx, id, update); err != nil {
		return 0, err
	}

	// The old file is removed only after the row points at the new one; a
	// failed delete leaves an orphan file, which is tolerated.
	if newPhotoPath != "" && existing.PhotoPath != "" && existing.PhotoPath != newPhotoPath {
		if err := s.photos.DeletePhoto(existing.PhotoPath); err != nil {
			logger.Warn().Err(err).Str("path", existing.PhotoPath).Msg("Failed to delete replaced photo")
		}
	}

	return id, nil
}
