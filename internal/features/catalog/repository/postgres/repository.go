package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"papers-store-backend/internal/features/catalog/models"
	"papers-store-backend/internal/features/catalog/repository"
)

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) repository.CatalogRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Departments(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT department
		FROM question_papers
		WHERE department <> '' AND left(department, 2) <> '__'
		ORDER BY department
	`

	departments := []string{}
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	return departments, nil
}

func (r *postgresRepository) Semesters(ctx context.Context, department string) ([]string, error) {
	query := `
		SELECT DISTINCT semester
		FROM question_papers
		WHERE department = $1 AND semester <> ''
		ORDER BY semester
	`

	semesters := []string{}
	if err := r.db.SelectContext(ctx, &semesters, query, department); err != nil {
		return nil, fmt.Errorf("failed to list semesters: %w", err)
	}

	return semesters, nil
}

func (r *postgresRepository) Years(ctx context.Context, department, semester string) ([]string, error) {
	query := `
		SELECT DISTINCT year
		FROM question_papers
		WHERE department = $1 AND semester = $2 AND year <> ''
		ORDER BY year
	`

	years := []string{}
	if err := r.db.SelectContext(ctx, &years, query, department, semester); err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}

	return years, nil
}

func (r *postgresRepository) Papers(ctx context.Context, department, semester, year string) ([]models.PaperSummary, error) {
	query := `
		SELECT id, paper_name, price
		FROM question_papers
		WHERE department = $1 AND semester = $2 AND year = $3
			AND NOT (paper_name = ANY($4))
		ORDER BY id
	`

	papers := []models.PaperSummary{}
	err := r.db.SelectContext(ctx, &papers, query,
		department, semester, year, pq.Array(models.SentinelNames))
	if err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}

	return papers, nil
}
