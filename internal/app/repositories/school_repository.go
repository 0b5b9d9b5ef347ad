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

// SchoolRepository handles school database operations
type SchoolRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSchoolRepository creates a new SchoolRepository
func NewSchoolRepository(db *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateIfAbsent returns the id of the school with the given name if one
// exists (case-sensitive exact match), otherwise inserts the school and
// returns the new id. The lookup and insert run in one transaction so the
// operation stays idempotent.
func (r *SchoolRepository) CreateIfAbsent(ctx context.Context, school *models.School) (int64, error) {
	var id int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		selectSQL, selectArgs, err := r.sb.Select("id").
			From("schools").
			Where(squirrel.Eq{"name": school.Name}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build school lookup query: %w", err)
		}

		err = tx.QueryRow(ctx, selectSQL, selectArgs...).Scan(&id)
		if err == nil {
			return nil // already present, reuse the existing row
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("error looking up school by name: %w", err)
		}

		insertSQL, insertArgs, err := r.sb.Insert("schools").
			Columns("name", "type", "state", "latitude", "longitude", "website").
			Values(school.Name, school.Type, school.State, school.Latitude, school.Longitude, school.Website).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create school query: %w", err)
		}

		if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&id); err != nil {
			return fmt.Errorf("error creating school: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Str("name", school.Name).Msg("Error creating school")
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a school by ID
func (r *SchoolRepository) GetByID(ctx context.Context, id int64) (*models.School, error) {
	sql, args, err := r.sb.Select("id", "name", "type", "state", "latitude", "longitude", "website").
		From("schools").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get school query: %w", err)
	}

	school := &models.School{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&school.ID,
		&school.Name,
		&school.Type,
		&school.State,
		&school.Latitude,
		&school.Longitude,
		&school.Website,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		logger.Error().Err(err).Int64("schoolID", id).Msg("Error scanning school row")
		return nil, fmt.Errorf("error getting school by ID: %w", err)
	}

	return school, nil
}

// GetAllWithCounts retrieves all schools together with their enrollment
// rollups. Counts come from the enrollments table at query time: total
// counts every enrollment row referencing the school, current counts the
// subset with status 'current'.
func (r *SchoolRepository) GetAllWithCounts(ctx context.Context) ([]*models.SchoolWithCounts, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.name", "s.type", "s.state", "s.latitude", "s.longitude", "s.website",
		"COUNT(e.id) AS total_students",
		"COUNT(e.id) FILTER (WHERE e.status = 'current') AS current_students",
	).
		From("schools s").
		LeftJoin("enrollments e ON e.school_id = s.id").
		GroupBy("s.id").
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build school list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing school list query")
		return nil, fmt.Errorf("error querying schools: %w", err)
	}
	defer rows.Close()

	schools := []*models.SchoolWithCounts{}
	for rows.Next() {
		sc := &models.SchoolWithCounts{}
		if err := rows.Scan(
			&sc.ID,
			&sc.Name,
			&sc.Type,
			&sc.State,
			&sc.Latitude,
			&sc.Longitude,
			&sc.Website,
			&sc.TotalStudents,
			&sc.CurrentStudents,
		); err != nil {
			return nil, fmt.Errorf("error scanning school row: %w", err)
		}
		schools = append(schools, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating school rows: %w", err)
	}

	return schools, nil
}

// UpdateWebsite persists a discovered website URL on the school row.
func (r *SchoolRepository) UpdateWebsite(ctx context.Context, id int64, website string) error {
	sql, args, err := r.sb.Update("schools").
		Set("website", website).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update website query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("schoolID", id).Msg("Error updating school website")
		return fmt.Errorf("error updating school website: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSchoolNotFound
	}

	return nil
}

// SearchByName retrieves schools whose name contains the query,
// case-insensitively, ordered by id.
func (r *SchoolRepository) SearchByName(ctx context.Context, query string) ([]*models.School, error) {
	sql, args, err := r.sb.Select("id", "name", "type", "state", "latitude", "longitude", "website").
		From("schools").
		Where(squirrel.ILike{"name": "%" + query + "%"}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build school search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("Error executing school search")
		return nil, fmt.Errorf("error searching schools: %w", err)
	}
	defer rows.Close()

	schools := []*models.School{}
	for rows.Next() {
		school := &models.School{}
		if err := rows.Scan(
			&school.ID,
			&school.Name,
			&school.Type,
			&school.State,
			&school.Latitude,
			&school.Longitude,
			&school.Website,
		); err != nil {
			return nil, fmt.Errorf("error scanning school row: %w", err)
		}
		schools = append(schools, school)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating school rows: %w", err)
	}

	return schools, nil
}
