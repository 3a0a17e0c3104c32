package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papers-store-backend/internal/common/errors"
	"papers-store-backend/internal/features/catalog/service"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(service service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes mounts the public catalog; no init data is required.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/departments", h.getDepartments)
	router.GET("/semesters/:department", h.getSemesters)
	router.GET("/years/:department/:semester", h.getYears)
	router.GET("/papers/:department/:semester/:year", h.getPapers)
}

// @Summary List departments
// @Tags catalog
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} models.ErrorResponse
// @Router /departments [get]
func (h *CatalogHandler) getDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("list departments", err))
		return
	}

	c.JSON(http.StatusOK, departments)
}

// @Summary List semesters of a department
// @Tags catalog
// @Produce json
// @Param department path string true "Department"
// @Success 200 {array} string
// @Router /semesters/{department} [get]
func (h *CatalogHandler) getSemesters(c *gin.Context) {
	semesters, err := h.service.ListSemesters(c.Request.Context(), c.Param("department"))
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("list semesters", err))
		return
	}

	c.JSON(http.StatusOK, semesters)
}

// @Summary List years of a department semester
// @Tags catalog
// @Produce json
// @Param department path string true "Department"
// @Param semester path string true "Semester"
// @Success 200 {array} string
// @Router /years/{department}/{semester} [get]
func (h *CatalogHandler) getYears(c *gin.Context) {
	years, err := h.service.ListYears(c.Request.Context(), c.Param("department"), c.Param("semester"))
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("list years", err))
		return
	}

	c.JSON(http.StatusOK, years)
}

// @Summary List papers
// @Tags catalog
// @Produce json
// @Param department path string true "Department"
// @Param semester path string true "Semester"
// @Param year path string true "Year"
// @Success 200 {array} models.PaperSummary
// @Router /papers/{department}/{semester}/{year} [get]
func (h *CatalogHandler) getPapers(c *gin.Context) {
	papers, err := h.service.ListPapers(c.Request.Context(), c.Param("department"), c.Param("semester"), c.Param("year"))
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("list papers", err))
		return
	}

	c.JSON(http.StatusOK, papers)
}
