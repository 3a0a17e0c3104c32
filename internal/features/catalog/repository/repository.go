package repository

import (
	"context"

	"papers-store-backend/internal/features/catalog/models"
)

// CatalogRepository lists the distinct levels of the paper inventory.
// Unknown filters yield empty slices, never an error.
type CatalogRepository interface {
	Departments(ctx context.Context) ([]string, error)
	Semesters(ctx context.Context, department string) ([]string, error)
	Years(ctx context.Context, department, semester string) ([]string, error)
	Papers(ctx context.Context, department, semester, year string) ([]models.PaperSummary, error)
}
