package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"papers-store-backend/internal/common/middleware"
	"papers-store-backend/internal/features/catalog/models"
)

type stubCatalog struct {
	err error
}

func (s stubCatalog) ListDepartments(ctx context.Context) ([]string, error) {
	return []string{"CSE"}, s.err
}

func (s stubCatalog) ListSemesters(ctx context.Context, department string) ([]string, error) {
	if department != "CSE" {
		return []string{}, s.err
	}
	return []string{"1", "2"}, s.err
}

func (s stubCatalog) ListYears(ctx context.Context, department, semester string) ([]string, error) {
	return []string{department + "-" + semester}, s.err
}

func (s stubCatalog) ListPapers(ctx context.Context, department, semester, year string) ([]models.PaperSummary, error) {
	return []models.PaperSummary{{ID: 9, PaperName: "OS", Price: 12}}, s.err
}

func newRouter(svc stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Errors())
	NewCatalogHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCatalogRoutes(t *testing.T) {
	r := newRouter(stubCatalog{})

	tests := []struct {
		path string
		body string
	}{
		{"/api/departments", `["CSE"]`},
		{"/api/semesters/CSE", `["1","2"]`},
		{"/api/semesters/Unknown", `[]`},
		{"/api/years/CSE/3", `["CSE-3"]`},
		{"/api/years/Civil%20Eng/3", `["Civil Eng-3"]`},
		{"/api/papers/CSE/3/2023", `[{"id":9,"paper_name":"OS","price":12}]`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(r, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestCatalogStoreFailureIsGeneric500(t *testing.T) {
	r := newRouter(stubCatalog{err: errors.New("pq: relation does not exist")})

	w := get(r, "/api/departments")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
