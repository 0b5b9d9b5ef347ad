package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
)

// AchievementService defines the interface for achievement-related operations
type AchievementService interface {
	ListByStudent(ctx context.Context, studentID int64) ([]dto.AchievementResponse, error)
	CreateForStudent(ctx context.Context, studentID int64, req dto.CreateAchievementRequest) (*dto.AchievementResponse, error)
	Delete(ctx context.Context, id int64) error
}

// achievementServiceImpl implements the AchievementService interface
type achievementServiceImpl struct {
	achievementRepo AchievementStore
	studentRepo     StudentStore
}

// NewAchievementService creates a new achievement service instance
func NewAchievementService(achievementRepo AchievementStore, studentRepo StudentStore) AchievementService {
	return &achievementServiceImpl{
		achievementRepo: achievementRepo,
		studentRepo:     studentRepo,
	}
}

// ListByStudent returns the student's achievements; an unknown student id
// is a not-found error, a student without achievements yields an empty list.
func (s *achievementServiceImpl) ListByStudent(ctx context.Context, studentID int64) ([]dto.AchievementResponse, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	achievements, err := s.achievementRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving achievements: %w", err)
	}

	result := make([]dto.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		result = append(result, dto.AchievementResponse{ID: a.ID, Title: a.Title})
	}
	return result, nil
}

// CreateForStudent records a new achievement for an existing student.
func (s *achievementServiceImpl) CreateForStudent(ctx context.Context, studentID int64, req dto.CreateAchievementRequest) (*dto.AchievementResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}

	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	achievement := &models.Achievement{
		StudentID: studentID,
		Title:     req.Title,
	}

	id, err := s.achievementRepo.Create(ctx, achievement)
	if err != nil {
		return nil, fmt.Errorf("error creating achievement: %w", err)
	}

	return &dto.AchievementResponse{ID: id, Title: achievement.Title}, nil
}

// Delete removes a single achievement; other achievements of the same
// student are untouched.
func (s *achievementServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.achievementRepo.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}
