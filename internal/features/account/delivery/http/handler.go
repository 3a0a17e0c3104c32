package http

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"papers-store-backend/internal/common/errors"
	"papers-store-backend/internal/common/middleware"
	"papers-store-backend/internal/features/account/mapper"
	"papers-store-backend/internal/features/account/models"
	"papers-store-backend/internal/features/account/service"
)

type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{
		service: service,
	}
}

// RegisterRoutes mounts the user endpoints. The group must already be
// guarded by middleware.TelegramInitData.
func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/user", h.getUser)
	router.POST("/purchase", h.purchase)
	router.GET("/purchase-history", h.getPurchaseHistory)
	router.GET("/profile", h.getProfile)
	router.GET("/request-paper/:paper_id", h.requestPaper)
}

// RegisterAdminRoutes mounts balance administration behind an admin guard.
func (h *AccountHandler) RegisterAdminRoutes(router *gin.RouterGroup, adminIDs []int64) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin(adminIDs))
	{
		admin.POST("/users/:id/stars", h.creditStars)
	}
}

// @Summary Get current user
// @Description Get or create the current user. first_name comes from the init data of this request.
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user [get]
func (h *AccountHandler) getUser(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(errors.NewUnauthorizedError())
		return
	}

	user, err := h.service.GetOrCreateUser(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("get or create user", err))
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Purchase a paper
// @Description Buys a paper with stars. Missing user/paper and repeat purchases are reported with success=false.
// @Tags purchases
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body models.PurchaseRequest true "Paper to buy"
// @Success 200 {object} models.PurchaseResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /purchase [post]
func (h *AccountHandler) purchase(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(errors.NewUnauthorizedError())
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.NewBadRequestError("Invalid request body"))
		return
	}

	result, err := h.service.Purchase(c.Request.Context(), identity.ID, req.PaperID)
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("purchase", err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToPurchaseResponse(result))
}

// @Summary Purchase history
// @Description Last 10 purchases, most recent first.
// @Tags purchases
// @Produce json
// @Security TelegramInitData
// @Success 200 {array} models.HistoryItem
// @Failure 401 {object} models.ErrorResponse
// @Router /purchase-history [get]
func (h *AccountHandler) getPurchaseHistory(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(errors.NewUnauthorizedError())
		return
	}

	history, err := h.service.PurchaseHistory(c.Request.Context(), identity.ID)
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("purchase history", err))
		return
	}

	c.JSON(http.StatusOK, history)
}

// @Summary Profile statistics
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile [get]
func (h *AccountHandler) getProfile(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(errors.NewUnauthorizedError())
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), identity.ID)
	if err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			_ = c.Error(errors.NewUserNotFoundError())
			return
		}
		_ = c.Error(errors.NewDatabaseError("profile", err))
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Check paper access
// @Description Reports whether the current user has purchased the paper.
// @Tags purchases
// @Produce json
// @Security TelegramInitData
// @Param paper_id path int true "Paper ID"
// @Success 200 {object} models.AccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /request-paper/{paper_id} [get]
func (h *AccountHandler) requestPaper(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(errors.NewUnauthorizedError())
		return
	}

	paperID, err := strconv.ParseInt(c.Param("paper_id"), 10, 64)
	if err != nil || paperID < 0 {
		_ = c.Error(errors.New(errors.ErrCodeNotFound, "Not found"))
		return
	}

	outcome, err := h.service.CheckAccess(c.Request.Context(), identity.ID, paperID)
	if err != nil {
		_ = c.Error(errors.NewDatabaseError("check access", err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToAccessResponse(outcome))
}

// @Summary Credit stars
// @Description Adds stars to a user's balance (admin only).
// @Tags admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Telegram user ID"
// @Param request body models.CreditRequest true "Amount"
// @Success 200 {object} models.Account
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/stars [post]
func (h *AccountHandler) creditStars(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(errors.NewBadRequestError("Invalid user ID format"))
		return
	}

	var req models.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.NewBadRequestError("Invalid request body"))
		return
	}

	account, err := h.service.Credit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidAmount) {
			_ = c.Error(errors.NewBadRequestError("Amount must be positive"))
			return
		}
		_ = c.Error(errors.NewDatabaseError("credit stars", err))
		return
	}

	c.JSON(http.StatusOK, account)
}
