package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/pkg/logger"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListBySchoolWithStudents retrieves all enrollments at a school joined
// with the enrolled student's fields. A student with several enrollment
// rows at the school yields one entry per row.
func (r *EnrollmentRepository) ListBySchoolWithStudents(ctx context.Context, schoolID int64) ([]*models.EnrollmentWithStudent, error) {
	sql, args, err := r.sb.Select(
		"e.id", "e.student_id", "e.school_id", "e.status", "e.start_year", "e.end_year",
		"st.name AS student_name", "st.age AS student_age", "st.grade AS student_grade",
	).
		From("enrollments e").
		Join("students st ON st.id = e.student_id").
		Where(squirrel.Eq{"e.school_id": schoolID}).
		OrderBy("e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build school enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("schoolID", schoolID).Msg("Error querying school enrollments")
		return nil, fmt.Errorf("error querying school enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.EnrollmentWithStudent{}
	for rows.Next() {
		e := &models.EnrollmentWithStudent{}
		if err := rows.Scan(
			&e.ID,
			&e.StudentID,
			&e.SchoolID,
			&e.Status,
			&e.StartYear,
			&e.EndYear,
			&e.StudentName,
			&e.StudentAge,
			&e.StudentGrade,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// ListByStudentWithSchools retrieves a student's full enrollment history
// joined with school names, one entry per enrollment row.
func (r *EnrollmentRepository) ListByStudentWithSchools(ctx context.Context, studentID int64) ([]*models.EnrollmentWithSchool, error) {
	sql, args, err := r.sb.Select(
		"e.id", "e.student_id", "e.school_id", "e.status", "e.start_year", "e.end_year",
		"s.name AS school_name",
	).
		From("enrollments e").
		Join("schools s ON s.id = e.school_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying student enrollments")
		return nil, fmt.Errorf("error querying student enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.EnrollmentWithSchool{}
	for rows.Next() {
		e := &models.EnrollmentWithSchool{}
		if err := rows.Scan(
			&e.ID,
			&e.StudentID,
			&e.SchoolID,
			&e.Status,
			&e.StartYear,
			&e.EndYear,
			&e.SchoolName,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// insertEnrollmentTx inserts one enrollment row inside an open transaction.
func insertEnrollmentTx(ctx context.Context, tx pgx.Tx, e *models.Enrollment) error {
	sql, args, err := squirrel.Insert("enrollments").
		Columns("student_id", "school_id", "status", "start_year", "end_year").
		Values(e.StudentID, e.SchoolID, e.Status, e.StartYear, e.EndYear).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert enrollment query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("error inserting enrollment: %w", err)
	}
	return nil
}

// deleteEnrollmentsByStudentTx removes every enrollment row owned by the
// student inside an open transaction. Used by the wholesale-replace update.
func deleteEnrollmentsByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := squirrel.Delete("enrollments").
		Where(squirrel.Eq{"student_id": studentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollments query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting enrollments: %w", err)
	}
	return nil
}
