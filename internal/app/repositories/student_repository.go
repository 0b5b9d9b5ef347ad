package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/db"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
	"github.com/oguzk/schoolatlas/internal/pkg/logger"
)

// StudentRepository handles student database operations, including the
// compound create/update that owns a student's enrollment and achievement
// rows.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// StudentUpdate carries the fields of a student update. Name, Age and Grade
// are always written. A nil Enrollments slice leaves the enrollment set
// unchanged; a non-nil slice replaces it wholesale. The same convention
// applies to Achievements via ReplaceAchievements. A nil PhotoPath keeps the
// stored photo reference.
type StudentUpdate struct {
	Name                string
	Age                 int
	Grade               string
	PhotoPath           *string
	Enrollments         []*models.Enrollment
	ReplaceEnrollments  bool
	Achievements        []*models.Achievement
	ReplaceAchievements bool
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "name", "age", "grade", "photo_path").
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student := &models.Student{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID,
		&student.Name,
		&student.Age,
		&student.Grade,
		&student.PhotoPath,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// PhotoAttachFn stores the photo for a newly inserted student, once its
// generated id is known, and returns the public path to persist. It runs
// inside the insert transaction: an error rolls back every row, so a failed
// photo write never leaves a committed student behind. A file written
// before a later transaction failure is an orphan, which is tolerated.
type PhotoAttachFn func(id int64) (string, error)

// CreateWithRelations inserts the student row and every supplied enrollment
// and achievement row in one transaction. The student row is inserted first
// so the children can reference its generated id. When attachPhoto is
// non-nil it runs last within the transaction and its path is written to
// the row; either everything commits or nothing does.
func (r *StudentRepository) CreateWithRelations(
	ctx context.Context,
	student *models.Student,
	enrollments []*models.Enrollment,
	achievements []*models.Achievement,
	attachPhoto PhotoAttachFn,
) (int64, error) {
	var id int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		insertSQL, insertArgs, err := r.sb.Insert("students").
			Columns("name", "age", "grade", "photo_path").
			Values(student.Name, student.Age, student.Grade, student.PhotoPath).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&id); err != nil {
			return fmt.Errorf("error creating student: %w", err)
		}

		for _, e := range enrollments {
			e.StudentID = id
			if err := insertEnrollmentTx(ctx, tx, e); err != nil {
				return err
			}
		}

		for _, a := range achievements {
			a.StudentID = id
			if err := insertAchievementTx(ctx, tx, a); err != nil {
				return err
			}
		}

		if attachPhoto != nil {
			photoPath, err := attachPhoto(id)
			if err != nil {
				return fmt.Errorf("error storing student photo: %w", err)
			}
			if photoPath != "" {
				photoSQL, photoArgs, err := r.sb.Update("students").
					Set("photo_path", photoPath).
					Where(squirrel.Eq{"id": id}).
					ToSql()
				if err != nil {
					return fmt.Errorf("failed to build photo path query: %w", err)
				}
				if _, err := tx.Exec(ctx, photoSQL, photoArgs...); err != nil {
					return fmt.Errorf("error persisting student photo path: %w", err)
				}
				student.PhotoPath = photoPath
			}
		}

		return nil
	})
	if err != nil {
		logger.Error().Err(err).Str("name", student.Name).Msg("Error creating student")
		return 0, err
	}

	student.ID = id
	return id, nil
}

// UpdateWithRelations updates the student row and, when requested, replaces
// its enrollment and achievement sets (delete-all-then-reinsert) in the same
// transaction, so no reader observes the emptied intermediate state.
// Returns apperrors.ErrStudentNotFound when the id does not exist.
func (r *StudentRepository) UpdateWithRelations(ctx context.Context, id int64, update StudentUpdate) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		builder := r.sb.Update("students").
			Set("name", update.Name).
			Set("age", update.Age).
			Set("grade", update.Grade).
			Where(squirrel.Eq{"id": id})
		if update.PhotoPath != nil {
			builder = builder.Set("photo_path", *update.PhotoPath)
		}

		updateSQL, updateArgs, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update student query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, updateSQL, updateArgs...)
		if err != nil {
			return fmt.Errorf("error updating student: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}

		if update.ReplaceEnrollments {
			if err := deleteEnrollmentsByStudentTx(ctx, tx, id); err != nil {
				return err
			}
			for _, e := range update.Enrollments {
				e.StudentID = id
				if err := insertEnrollmentTx(ctx, tx, e); err != nil {
					return err
				}
			}
		}

		if update.ReplaceAchievements {
			if err := deleteAchievementsByStudentTx(ctx, tx, id); err != nil {
				return err
			}
			for _, a := range update.Achievements {
				a.StudentID = id
				if err := insertAchievementTx(ctx, tx, a); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student")
		}
		return err
	}

	return nil
}

// SearchByName retrieves students whose name contains the query,
// case-insensitively, ordered by id.
func (r *StudentRepository) SearchByName(ctx context.Context, query string) ([]*models.Student, error) {
	sql, args, err := r.sb.Select("id", "name", "age", "grade", "photo_path").
		From("students").
		Where(squirrel.ILike{"name": "%" + query + "%"}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("Error executing student search")
		return nil, fmt.Errorf("error searching students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Age,
			&student.Grade,
			&student.PhotoPath,
		); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// CountAll returns the number of student rows. Used by the seeder to decide
// whether default data is needed.
func (r *StudentRepository) CountAll(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return count, nil
}
