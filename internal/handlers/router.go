package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/livingrent/storefront-service/internal/services"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/livingrent/storefront-service/internal/validator"
)

type HandlerManager struct {
	importHandler  *ImportHandler
	productHandler *ProductHandler
	rentalHandler  *RentalHandler
}

func NewHandlerManager(
	importService services.ImportService,
	productService services.ProductService,
	rentalService services.RentalService,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		importHandler:  NewImportHandler(importService, logger),
		productHandler: NewProductHandler(productService, v, logger),
		rentalHandler:  NewRentalHandler(rentalService, v, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "storefront-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Spreadsheet import routes
		imports := v1.Group("/imports")
		{
			imports.POST("", hm.importHandler.UploadSpreadsheet)
			imports.GET("", hm.importHandler.ListImportJobs)
			imports.GET("/:id", hm.importHandler.GetImportJob)
		}

		// Draft review routes
		drafts := v1.Group("/drafts")
		{
			drafts.GET("", hm.productHandler.ListDrafts)
			drafts.GET("/:id", hm.productHandler.GetDraft)
			drafts.POST("/:id/approve", hm.productHandler.ApproveDraft)
			drafts.POST("/:id/reject", hm.productHandler.RejectDraft)
		}

		// Public catalog routes
		products := v1.Group("/products")
		{
			products.GET("", hm.productHandler.ListProducts)
			products.GET("/export", hm.productHandler.ExportProducts)
			products.GET("/:id", hm.productHandler.GetProduct)
		}
		v1.GET("/categories", hm.productHandler.ListCategories)
		v1.GET("/stats", hm.productHandler.GetCatalogStats)

		// Rental routes
		rentals := v1.Group("/rentals")
		{
			rentals.POST("", hm.rentalHandler.RequestRental)
			rentals.GET("", hm.rentalHandler.ListRentals)
			rentals.GET("/:id", hm.rentalHandler.GetRental)
			rentals.POST("/:id/start", hm.rentalHandler.StartRental)
			rentals.POST("/:id/return", hm.rentalHandler.ReturnRental)
			rentals.POST("/:id/cancel", hm.rentalHandler.CancelRental)
		}

		// Wishlist routes
		wishlist := v1.Group("/wishlist")
		{
			wishlist.POST("", hm.rentalHandler.AddToWishlist)
			wishlist.GET("", hm.rentalHandler.ListWishlist)
			wishlist.DELETE("/:product_id", hm.rentalHandler.RemoveFromWishlist)
		}
	}
}
