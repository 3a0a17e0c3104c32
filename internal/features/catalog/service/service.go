package service

import (
	"context"
	"net/url"
	"time"

	"papers-store-backend/internal/common/cache"
	"papers-store-backend/internal/features/catalog/models"
	"papers-store-backend/internal/features/catalog/repository"
)

const keyPrefix = "catalog:"

type CatalogService interface {
	ListDepartments(ctx context.Context) ([]string, error)
	ListSemesters(ctx context.Context, department string) ([]string, error)
	ListYears(ctx context.Context, department, semester string) ([]string, error)
	ListPapers(ctx context.Context, department, semester, year string) ([]models.PaperSummary, error)
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache *cache.CacheService
	ttl   time.Duration
}

// NewCatalogService builds the public catalog. cacheService may be nil, in
// which case every listing goes to the repository.
func NewCatalogService(repo repository.CatalogRepository, cacheService *cache.CacheService, ttl time.Duration) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: cacheService,
		ttl:   ttl,
	}
}

func (s *catalogService) ListDepartments(ctx context.Context) ([]string, error) {
	return cache.GetOrLoad(ctx, s.cache, key("departments"), s.ttl, func() ([]string, error) {
		departments, err := s.repo.Departments(ctx)
		return visible(departments), err
	})
}

func (s *catalogService) ListSemesters(ctx context.Context, department string) ([]string, error) {
	return cache.GetOrLoad(ctx, s.cache, key("semesters", department), s.ttl, func() ([]string, error) {
		semesters, err := s.repo.Semesters(ctx, department)
		return visible(semesters), err
	})
}

func (s *catalogService) ListYears(ctx context.Context, department, semester string) ([]string, error) {
	return cache.GetOrLoad(ctx, s.cache, key("years", department, semester), s.ttl, func() ([]string, error) {
		years, err := s.repo.Years(ctx, department, semester)
		return visible(years), err
	})
}

func (s *catalogService) ListPapers(ctx context.Context, department, semester, year string) ([]models.PaperSummary, error) {
	return cache.GetOrLoad(ctx, s.cache, key("papers", department, semester, year), s.ttl, func() ([]models.PaperSummary, error) {
		papers, err := s.repo.Papers(ctx, department, semester, year)
		if err != nil {
			return nil, err
		}

		out := make([]models.PaperSummary, 0, len(papers))
		for _, p := range papers {
			if !models.IsSentinelName(p.PaperName) {
				out = append(out, p)
			}
		}
		return out, nil
	})
}

// visible drops empty and placeholder values and never returns nil.
func visible(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !models.IsSentinelCategory(v) {
			out = append(out, v)
		}
	}
	return out
}

func key(kind string, parts ...string) string {
	k := keyPrefix + kind
	for _, p := range parts {
		k += ":" + url.QueryEscape(p)
	}
	return k
}
