package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
	"github.com/oguzk/schoolatlas/internal/pkg/logger"
)

// AchievementRepository handles achievement database operations
type AchievementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByStudent retrieves all achievements owned by a student.
func (r *AchievementRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Achievement, error) {
	sql, args, err := r.sb.Select("id", "student_id", "title").
		From("achievements").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list achievements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying achievements")
		return nil, fmt.Errorf("error querying achievements: %w", err)
	}
	defer rows.Close()

	achievements := []*models.Achievement{}
	for rows.Next() {
		a := &models.Achievement{}
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Title); err != nil {
			return nil, fmt.Errorf("error scanning achievement row: %w", err)
		}
		achievements = append(achievements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievement rows: %w", err)
	}

	return achievements, nil
}

// Create inserts a new achievement and returns its id.
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) (int64, error) {
	sql, args, err := r.sb.Insert("achievements").
		Columns("student_id", "title").
		Values(achievement.StudentID, achievement.Title).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create achievement query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("studentID", achievement.StudentID).Msg("Error creating achievement")
		return 0, fmt.Errorf("error creating achievement: %w", err)
	}

	return id, nil
}

// Delete removes a single achievement by id.
func (r *AchievementRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("achievements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete achievement query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("achievementID", id).Msg("Error deleting achievement")
		return fmt.Errorf("error deleting achievement: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAchievementNotFound
	}

	return nil
}

// insertAchievementTx inserts one achievement row inside an open transaction.
func insertAchievementTx(ctx context.Context, tx pgx.Tx, a *models.Achievement) error {
	sql, args, err := squirrel.Insert("achievements").
		Columns("student_id", "title").
		Values(a.StudentID, a.Title).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert achievement query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&a.ID); err != nil {
		return fmt.Errorf("error inserting achievement: %w", err)
	}
	return nil
}

// deleteAchievementsByStudentTx removes every achievement owned by the
// student inside an open transaction.
func deleteAchievementsByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := squirrel.Delete("achievements").
		Where(squirrel.Eq{"student_id": studentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete achievements query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting achievements: %w", err)
	}
	return nil
}
