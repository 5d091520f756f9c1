package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/livingrent/storefront-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type ProductFilters struct {
	CategoryID *models.CategoryID    `json:"category_id"`
	Brand      *string               `json:"brand"`
	Status     *models.ProductStatus `json:"status"`
	MaxMonthly *float64              `json:"max_monthly"`
	Search     string                `json:"search"` // matches name / name_ko
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
	SortBy     string                `json:"sort_by"`    // "created_at", "monthly_price", "rating"
	SortOrder  string                `json:"sort_order"` // "asc", "desc"
}

type DraftFilters struct {
	Status     *models.DraftStatus `json:"status"`
	SourceFile *string             `json:"source_file"`
	DateFrom   *time.Time          `json:"date_from"`
	DateTo     *time.Time          `json:"date_to"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

type RentalFilters struct {
	UserID    *string              `json:"user_id"`
	ProductID *uint                `json:"product_id"`
	Status    *models.RentalStatus `json:"status"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
}

// ===== STATISTICS STRUCTS =====

// CatalogStats feeds the admin dashboard overview.
type CatalogStats struct {
	TotalProducts      int64                        `json:"total_products"`
	ProductsByCategory map[models.CategoryID]int64  `json:"products_by_category"`
	DraftsByStatus     map[models.DraftStatus]int64 `json:"drafts_by_status"`
	ActiveRentals      int64                        `json:"active_rentals"`
}

// ===== REPOSITORY INTERFACES =====

type ProductRepository interface {
	Create(ctx context.Context, tx *gorm.DB, product *models.Product) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error)
	Update(ctx context.Context, tx *gorm.DB, product *models.Product) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error // Soft delete

	List(ctx context.Context, tx *gorm.DB, filters ProductFilters) ([]*models.Product, int64, error)
	CountByCategory(ctx context.Context, tx *gorm.DB) (map[models.CategoryID]int64, error)

	ListCategories(ctx context.Context, tx *gorm.DB) ([]*models.Category, error)
	SeedCategories(ctx context.Context, tx *gorm.DB, categories []*models.Category) error
}

type DraftRepository interface {
	Create(ctx context.Context, tx *gorm.DB, draft *models.ProductDraft) error
	CreateBatch(ctx context.Context, tx *gorm.DB, drafts []*models.ProductDraft) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProductDraft, error)
	Update(ctx context.Context, tx *gorm.DB, draft *models.ProductDraft) error

	List(ctx context.Context, tx *gorm.DB, filters DraftFilters) ([]*models.ProductDraft, int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB) (map[models.DraftStatus]int64, error)
}

type RentalRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rental *models.Rental) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Rental, error)
	Update(ctx context.Context, tx *gorm.DB, rental *models.Rental) error

	List(ctx context.Context, tx *gorm.DB, filters RentalFilters) ([]*models.Rental, int64, error)
	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
}

type WishlistRepository interface {
	Add(ctx context.Context, tx *gorm.DB, item *models.WishlistItem) error
	Remove(ctx context.Context, tx *gorm.DB, userID string, productID uint) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.WishlistItem, error)
	Exists(ctx context.Context, tx *gorm.DB, userID string, productID uint) (bool, error)
}

type ImportJobRepository interface {
	Create(ctx context.Context, tx *gorm.DB, job *models.ImportJob) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ImportJob, error)
	Update(ctx context.Context, tx *gorm.DB, job *models.ImportJob) error
	ListByUploader(ctx context.Context, tx *gorm.DB, uploaderID string, limit, offset int) ([]*models.ImportJob, int64, error)
}

// Repository aggregates all sub-repositories behind one dependency.
type Repository interface {
	Product() ProductRepository
	Draft() DraftRepository
	Rental() RentalRepository
	Wishlist() WishlistRepository
	ImportJob() ImportJobRepository

	// WithTransaction runs fn inside a single database transaction; the
	// *gorm.DB it passes must be forwarded as the tx argument of every
	// repository call made within fn.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// IsNotFoundError checks whether err represents a missing record
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
