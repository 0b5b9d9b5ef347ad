package services

import (
	"context"
	"fmt"

	"github.com/oguzk/schoolatlas/internal/app/models/dto"
)

// SearchService defines the interface for free-text name search
type SearchService interface {
	Search(ctx context.Context, query string) ([]interface{}, error)
}

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	schoolRepo  SchoolStore
	studentRepo StudentStore
}

// NewSearchService creates a new search service instance
func NewSearchService(schoolRepo SchoolStore, studentRepo StudentStore) SearchService {
	return &searchServiceImpl{
		schoolRepo:  schoolRepo,
		studentRepo: studentRepo,
	}
}

// Search matches the query as a case-insensitive substring against school
// and student names independently, returning school hits before student
// hits. No matches yields an empty list, never an error.
func (s *searchServiceImpl) Search(ctx context.Context, query string) ([]interface{}, error) {
	schools, err := s.schoolRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error searching schools: %w", err)
	}

	students, err := s.studentRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error searching students: %w", err)
	}

	results := make([]interface{}, 0, len(schools)+len(students))
	for _, school := range schools {
		results = append(results, dto.NewSchoolHit(school))
	}
	for _, student := range students {
		results = append(results, dto.NewStudentHit(student))
	}
	return results, nil
}
