package repository

import (
	"context"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SubjectRepository каталог предметов
type SubjectRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewSubjectRepository(pool *pgxpool.Pool, logger *zap.Logger) *SubjectRepository {
	return &SubjectRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Available предметы до указанного курса включительно: своего департамента и общего цикла STPI.
// Пустой department означает все департаменты.
func (r *SubjectRepository) Available(ctx context.Context, department string, year int) ([]model.Subject, error) {
	r.logger.Debug("SubjectRepository.Available called",
		zap.String("department", department),
		zap.Int("year", year))

	query := `
		SELECT name, department, year
		FROM subjects
		WHERE year <= $1 AND ($2 = '' OR department = $2 OR department = $3)
		ORDER BY year, department, name
	`

	return r.list(ctx, "get available subjects", query, year, department, model.DepartmentSTPI)
}

// ByDepartmentYear предметы конкретного департамента и курса
func (r *SubjectRepository) ByDepartmentYear(ctx context.Context, department string, year int) ([]model.Subject, error) {
	query := `
		SELECT name, department, year
		FROM subjects
		WHERE department = $1 AND year = $2
		ORDER BY name
	`

	return r.list(ctx, "get subjects by department and year", query, department, year)
}

// Exists проверяет, есть ли предмет в каталоге
func (r *SubjectRepository) Exists(ctx context.Context, subject model.Subject) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM subjects
			WHERE name = $1 AND department = $2 AND year = $3
		)
	`

	var exists bool
	err := r.QueryRow(ctx, query, subject.Name, subject.Department, subject.Year).Scan(&exists)
	if err != nil {
		return false, base.Wrap("check subject exists", err)
	}

	return exists, nil
}

func (r *SubjectRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]model.Subject, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, base.Wrap(op, err)
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var subject model.Subject
		if err := rows.Scan(&subject.Name, &subject.Department, &subject.Year); err != nil {
			return nil, base.Wrap("scan subject", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate subjects", err)
	}

	return subjects, nil
}
