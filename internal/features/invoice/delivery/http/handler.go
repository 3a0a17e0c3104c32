package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papers-store-backend/internal/common/errors"
	"papers-store-backend/internal/common/middleware"
	"papers-store-backend/internal/features/invoice/models"
	"papers-store-backend/internal/features/invoice/service"
)

type InvoiceHandler struct {
	service service.InvoiceService
}

func NewInvoiceHandler(service service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/create-invoice", h.createInvoice)
}

// @Summary Create invoice link
// @Description Returns a bot deep link for topping up stars.
// @Tags payments
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body models.CreateInvoiceRequest true "Amount of stars"
// @Success 200 {object} models.CreateInvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /create-invoice [post]
func (h *InvoiceHandler) createInvoice(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(errors.NewUnauthorizedError())
		return
	}

	var req models.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.NewBadRequestError("Invalid request body"))
		return
	}

	c.JSON(http.StatusOK, models.CreateInvoiceResponse{
		InvoiceURL: h.service.CreateInvoice(identity.ID, req.Amount.String()),
	})
}
