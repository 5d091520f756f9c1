package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"github.com/livingrent/storefront-service/internal/services"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/livingrent/storefront-service/internal/validator"
)

type ProductHandler struct {
	BaseHandler
	productService services.ProductService
	validator      *validator.Validator
}

type ApproveDraftRequest struct {
	CategoryID *models.CategoryID `json:"category_id" validate:"omitempty,category_id"`
}

type RejectDraftRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

func NewProductHandler(productService services.ProductService, v *validator.Validator, logger utils.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    NewBaseHandler(logger),
		productService: productService,
		validator:      v,
	}
}

// ===== PUBLIC CATALOG =====

// ListProducts returns the filtered product catalog
// @Summary List products
// @Tags products
// @Produce json
// @Param category query string false "Category ID"
// @Param brand query string false "Brand"
// @Param search query string false "Name search"
// @Success 200 {object} ListResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filters := h.parseProductFilters(c)

	products, total, err := h.productService.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: products, Total: total})
}

// GetProduct returns one product
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path uint true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCategories returns the canonical category list
// @Summary List categories
// @Tags products
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// ExportProducts streams the filtered catalog as an xlsx workbook
// @Summary Export products to Excel
// @Tags products
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /products/export [get]
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	filters := h.parseProductFilters(c)
	filters.Limit = 0 // export is unpaginated

	data, err := h.productService.ExportProductsToExcel(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	fileName := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== DRAFT REVIEW =====

// ListDrafts returns import drafts awaiting review
// @Summary List product drafts
// @Tags drafts
// @Produce json
// @Param status query string false "Draft status"
// @Param source_file query string false "Source file name"
// @Success 200 {object} ListResponse
// @Router /drafts [get]
func (h *ProductHandler) ListDrafts(c *gin.Context) {
	filters := repositories.DraftFilters{}
	filters.Limit, filters.Offset = ParsePagination(c)

	if status := c.Query("status"); status != "" {
		ds := models.DraftStatus(status)
		filters.Status = &ds
	}
	if sourceFile := c.Query("source_file"); sourceFile != "" {
		filters.SourceFile = &sourceFile
	}

	drafts, total, err := h.productService.ListDrafts(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: drafts, Total: total})
}

// GetDraft returns one draft
// @Summary Get draft
// @Tags drafts
// @Produce json
// @Param id path uint true "Draft ID"
// @Success 200 {object} models.ProductDraft
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id} [get]
func (h *ProductHandler) GetDraft(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	draft, err := h.productService.GetDraft(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// ApproveDraft publishes a draft into the catalog
// @Summary Approve draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path uint true "Draft ID"
// @Param body body ApproveDraftRequest false "Optional category override"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /drafts/{id}/approve [post]
func (h *ProductHandler) ApproveDraft(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	var req ApproveDraftRequest
	if c.Request.ContentLength > 0 {
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
	}

	h.LogRequest(c, "Approving draft", "draft_id", id)

	product, err := h.productService.ApproveDraft(c.Request.Context(), id, h.extractUserID(c), req.CategoryID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// RejectDraft rejects a draft
// @Summary Reject draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path uint true "Draft ID"
// @Param body body RejectDraftRequest false "Rejection reason"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /drafts/{id}/reject [post]
func (h *ProductHandler) RejectDraft(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	var req RejectDraftRequest
	if c.Request.ContentLength > 0 {
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
	}

	h.LogRequest(c, "Rejecting draft", "draft_id", id)

	if err := h.productService.RejectDraft(c.Request.Context(), id, h.extractUserID(c), req.Reason); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Draft rejected"})
}

// GetCatalogStats returns catalog counters for the admin dashboard
// @Summary Catalog statistics
// @Tags products
// @Produce json
// @Success 200 {object} repositories.CatalogStats
// @Router /stats [get]
func (h *ProductHandler) GetCatalogStats(c *gin.Context) {
	stats, err := h.productService.GetCatalogStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ProductHandler) parseProductFilters(c *gin.Context) repositories.ProductFilters {
	filters := repositories.ProductFilters{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = ParsePagination(c)

	if category := c.Query("category"); category != "" {
		id := models.CategoryID(category)
		filters.CategoryID = &id
	}
	if brand := c.Query("brand"); brand != "" {
		filters.Brand = &brand
	}
	if maxMonthly := c.Query("max_monthly"); maxMonthly != "" {
		if v, err := strconv.ParseFloat(maxMonthly, 64); err == nil && v > 0 {
			filters.MaxMonthly = &v
		}
	}

	return filters
}
