package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voiceout/platform/internal/domain"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = apperrors.ErrNotFound

// CaseFilter narrows a case listing. Role scoping is applied by the caller.
type CaseFilter struct {
	Statuses   []domain.CaseStatus
	Priorities []domain.CasePriority
	SearchTerm *string
}

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	Update(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	List(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates the Postgres repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, reporter_id, victim_id, title, description, incident_type, school, district, grade, class,
               status, priority, assigned_teacher_id, assigned_psychologist_id, assigned_lawyer_id, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (id, reporter_id, victim_id, title, description, incident_type, school, district, grade, class,
            status, priority, assigned_teacher_id, assigned_psychologist_id, assigned_lawyer_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
            COALESCE($16::timestamptz, NOW()), COALESCE($16::timestamptz, NOW()))
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		c.ID,
		c.ReporterID,
		c.VictimID,
		c.Title,
		c.Description,
		c.IncidentType,
		c.School,
		c.District,
		c.Grade,
		c.Class,
		c.Status,
		c.Priority,
		c.AssignedTeacherID,
		c.AssignedPsychologistID,
		c.AssignedLawyerID,
		optionalTime(c.CreatedAt),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// optionalTime turns a zero time into NULL so the column default applies.
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	const query = `
        UPDATE cases SET status=$1, priority=$2, assigned_teacher_id=$3, assigned_psychologist_id=$4,
            assigned_lawyer_id=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		c.Status,
		c.Priority,
		c.AssignedTeacherID,
		c.AssignedPsychologistID,
		c.AssignedLawyerID,
		c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cases, err := scanCases(rows)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, ErrNotFound
	}
	return &cases[0], nil
}

func (r *caseRepository) List(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM cases WHERE %s ORDER BY created_at DESC`, caseColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

func scanCases(rows pgx.Rows) ([]domain.Case, error) {
	result := []domain.Case{}
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(
			&c.ID,
			&c.ReporterID,
			&c.VictimID,
			&c.Title,
			&c.Description,
			&c.IncidentType,
			&c.School,
			&c.District,
			&c.Grade,
			&c.Class,
			&c.Status,
			&c.Priority,
			&c.AssignedTeacherID,
			&c.AssignedPsychologistID,
			&c.AssignedLawyerID,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
