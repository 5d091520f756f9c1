package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"github.com/livingrent/storefront-service/internal/services"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/livingrent/storefront-service/internal/validator"
)

type RentalHandler struct {
	BaseHandler
	rentalService services.RentalService
	validator     *validator.Validator
}

type RequestRentalRequest struct {
	ProductID    uint `json:"product_id" validate:"required"`
	PeriodMonths int  `json:"period_months" validate:"required,min=1,max=120"`
}

type WishlistRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

func NewRentalHandler(rentalService services.RentalService, v *validator.Validator, logger utils.Logger) *RentalHandler {
	return &RentalHandler{
		BaseHandler:   NewBaseHandler(logger),
		rentalService: rentalService,
		validator:     v,
	}
}

// ===== RENTALS =====

// RequestRental opens a rental for the calling user
// @Summary Request rental
// @Tags rentals
// @Accept json
// @Produce json
// @Param body body RequestRentalRequest true "Rental request"
// @Success 201 {object} models.Rental
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /rentals [post]
func (h *RentalHandler) RequestRental(c *gin.Context) {
	var req RequestRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Requesting rental", "product_id", req.ProductID)

	rental, err := h.rentalService.RequestRental(c.Request.Context(), h.extractUserID(c), req.ProductID, req.PeriodMonths)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rental)
}

// GetRental returns one rental
// @Summary Get rental
// @Tags rentals
// @Produce json
// @Param id path uint true "Rental ID"
// @Success 200 {object} models.Rental
// @Failure 404 {object} ErrorResponse
// @Router /rentals/{id} [get]
func (h *RentalHandler) GetRental(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	rental, err := h.rentalService.GetRental(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rental)
}

// ListRentals returns rentals, filterable by user and status
// @Summary List rentals
// @Tags rentals
// @Produce json
// @Param status query string false "Rental status"
// @Success 200 {object} ListResponse
// @Router /rentals [get]
func (h *RentalHandler) ListRentals(c *gin.Context) {
	filters := repositories.RentalFilters{}
	filters.Limit, filters.Offset = ParsePagination(c)

	if userID := h.extractUserID(c); userID != "" {
		filters.UserID = &userID
	}
	if status := c.Query("status"); status != "" {
		rs := models.RentalStatus(status)
		filters.Status = &rs
	}

	rentals, total, err := h.rentalService.ListRentals(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: rentals, Total: total})
}

// StartRental activates a requested rental
// @Summary Start rental
// @Tags rentals
// @Produce json
// @Param id path uint true "Rental ID"
// @Success 200 {object} models.Rental
// @Failure 409 {object} ErrorResponse
// @Router /rentals/{id}/start [post]
func (h *RentalHandler) StartRental(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	rental, err := h.rentalService.StartRental(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rental)
}

// ReturnRental closes an active rental
// @Summary Return rental
// @Tags rentals
// @Produce json
// @Param id path uint true "Rental ID"
// @Success 200 {object} models.Rental
// @Failure 409 {object} ErrorResponse
// @Router /rentals/{id}/return [post]
func (h *RentalHandler) ReturnRental(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	rental, err := h.rentalService.ReturnRental(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rental)
}

// CancelRental cancels a not-yet-started rental
// @Summary Cancel rental
// @Tags rentals
// @Produce json
// @Param id path uint true "Rental ID"
// @Success 200 {object} models.Rental
// @Failure 409 {object} ErrorResponse
// @Router /rentals/{id}/cancel [post]
func (h *RentalHandler) CancelRental(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	rental, err := h.rentalService.CancelRental(c.Request.Context(), id, h.extractUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rental)
}

// ===== WISHLIST =====

// AddToWishlist adds a product to the caller's wishlist
// @Summary Add wishlist item
// @Tags wishlist
// @Accept json
// @Produce json
// @Param body body WishlistRequest true "Product to wish for"
// @Success 201 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Router /wishlist [post]
func (h *RentalHandler) AddToWishlist(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	if err := h.rentalService.AddToWishlist(c.Request.Context(), h.extractUserID(c), req.ProductID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Added to wishlist"})
}

// RemoveFromWishlist removes a product from the caller's wishlist
// @Summary Remove wishlist item
// @Tags wishlist
// @Produce json
// @Param product_id path uint true "Product ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /wishlist/{product_id} [delete]
func (h *RentalHandler) RemoveFromWishlist(c *gin.Context) {
	productID := ParseUintIDParam(c, "product_id")
	if productID == 0 {
		return
	}

	if err := h.rentalService.RemoveFromWishlist(c.Request.Context(), h.extractUserID(c), productID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Removed from wishlist"})
}

// ListWishlist returns the caller's wishlist
// @Summary List wishlist
// @Tags wishlist
// @Produce json
// @Success 200 {array} models.WishlistItem
// @Router /wishlist [get]
func (h *RentalHandler) ListWishlist(c *gin.Context) {
	items, err := h.rentalService.ListWishlist(c.Request.Context(), h.extractUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
