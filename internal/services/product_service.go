package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/livingrent/storefront-service/internal/cache"
	"github.com/livingrent/storefront-service/internal/events"
	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	productCacheTTL    = 10 * time.Minute
	categoriesCacheTTL = time.Hour
)

// ProductService covers the public catalog plus the operator-side draft
// review workflow that feeds it.
type ProductService interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, filters repositories.ProductFilters) ([]*models.Product, int64, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)

	ListDrafts(ctx context.Context, filters repositories.DraftFilters) ([]*models.ProductDraft, int64, error)
	GetDraft(ctx context.Context, id uint) (*models.ProductDraft, error)
	ApproveDraft(ctx context.Context, draftID uint, reviewerID string, category *models.CategoryID) (*models.Product, error)
	RejectDraft(ctx context.Context, draftID uint, reviewerID, reason string) error

	GetCatalogStats(ctx context.Context) (*repositories.CatalogStats, error)
	ExportProductsToExcel(ctx context.Context, filters repositories.ProductFilters) ([]byte, error)
}

type productService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewProductService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger utils.Logger,
) ProductService {
	return &productService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
	}
}

// ===== CATALOG =====

func (s *productService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if s.cache != nil {
		var cached models.Product
		if err := s.cache.Get(ctx, cache.ProductKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.repo.Product().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ProductKey(id), product, productCacheTTL); err != nil {
			s.logger.Warn("Failed to cache product", "product_id", id, "error", err)
		}
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filters repositories.ProductFilters) ([]*models.Product, int64, error) {
	products, total, err := s.repo.Product().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (s *productService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if s.cache != nil {
		var cached []*models.Category
		if err := s.cache.Get(ctx, cache.CategoriesKey(), &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.Product().ListCategories(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.CategoriesKey(), categories, categoriesCacheTTL); err != nil {
			s.logger.Warn("Failed to cache categories", "error", err)
		}
	}

	return categories, nil
}

// ===== DRAFT REVIEW =====

func (s *productService) ListDrafts(ctx context.Context, filters repositories.DraftFilters) ([]*models.ProductDraft, int64, error) {
	drafts, total, err := s.repo.Draft().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, total, nil
}

func (s *productService) GetDraft(ctx context.Context, id uint) (*models.ProductDraft, error) {
	draft, err := s.repo.Draft().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// ApproveDraft publishes a reviewed draft into the catalog. The operator
// may supply a category to settle an uncategorized draft; approval without
// one is refused so nothing uncategorized ever reaches the storefront.
func (s *productService) ApproveDraft(ctx context.Context, draftID uint, reviewerID string, category *models.CategoryID) (*models.Product, error) {
	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if draft.Status != models.DraftPending && draft.Status != models.DraftNeedsReview {
		return nil, ErrDraftNotReviewable
	}

	if category != nil {
		if !category.Valid() || *category == models.CategoryUncategorized {
			return nil, NewValidationError("category_id", "invalid category", string(*category))
		}
		draft.CategoryID = category
	}
	if draft.Uncategorized() {
		return nil, ErrDraftNeedsCategory
	}

	product, err := productFromDraft(draft)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Product().Create(ctx, tx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		now := time.Now().UTC()
		draft.Status = models.DraftApproved
		draft.ReviewedBy = &reviewerID
		draft.UpdatedAt = now
		return s.repo.Draft().Update(ctx, tx, draft)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	s.publishDraftReviewed(ctx, draft, reviewerID, "")
	s.publishProductPublished(ctx, product, draft.ID)

	s.logger.Info("Draft approved",
		"draft_id", draft.ID,
		"product_id", product.ID,
		"reviewer", reviewerID)

	return product, nil
}

func (s *productService) RejectDraft(ctx context.Context, draftID uint, reviewerID, reason string) error {
	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return err
	}

	if draft.Status != models.DraftPending && draft.Status != models.DraftNeedsReview {
		return ErrDraftNotReviewable
	}

	draft.Status = models.DraftRejected
	draft.ReviewedBy = &reviewerID
	if reason != "" {
		draft.ReviewReason = &reason
	}

	if err := s.repo.Draft().Update(ctx, nil, draft); err != nil {
		return fmt.Errorf("failed to reject draft: %w", err)
	}

	s.publishDraftReviewed(ctx, draft, reviewerID, reason)

	s.logger.Info("Draft rejected", "draft_id", draft.ID, "reviewer", reviewerID)
	return nil
}

// productFromDraft builds the catalog product an approved draft becomes.
// The draft's free-form bag is carried into the product spec under Extra.
func productFromDraft(draft *models.ProductDraft) (*models.Product, error) {
	if draft.NameKo == nil && draft.Name == nil {
		return nil, NewValidationError("name_ko", "draft has no product name", nil)
	}
	if draft.MonthlyPrice == nil {
		return nil, NewValidationError("monthly_price", "draft has no monthly price", nil)
	}

	nameKo := ""
	if draft.NameKo != nil {
		nameKo = *draft.NameKo
	} else {
		nameKo = *draft.Name
	}

	rating := defaultRating
	if draft.Rating != nil {
		rating = *draft.Rating
	}

	specs := models.ProductSpecs{Extra: draft.Specs}
	specsJSON, err := json.Marshal(specs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product specs: %w", err)
	}

	draftID := draft.ID
	return &models.Product{
		Name:          draft.Name,
		NameKo:        nameKo,
		Brand:         draft.Brand,
		Description:   draft.Description,
		MonthlyPrice:  *draft.MonthlyPrice,
		OriginalPrice: draft.OriginalPrice,
		CategoryID:    *draft.CategoryID,
		Rating:        rating,
		Specs:         specsJSON,
		Status:        models.ProductActive,
		SourceDraftID: &draftID,
	}, nil
}

// ===== STATS =====

func (s *productService) GetCatalogStats(ctx context.Context) (*repositories.CatalogStats, error) {
	stats := &repositories.CatalogStats{}

	byCategory, err := s.repo.Product().CountByCategory(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}
	stats.ProductsByCategory = byCategory
	for _, n := range byCategory {
		stats.TotalProducts += n
	}

	byStatus, err := s.repo.Draft().CountByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count drafts by status: %w", err)
	}
	stats.DraftsByStatus = byStatus

	active, err := s.repo.Rental().CountActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count active rentals: %w", err)
	}
	stats.ActiveRentals = active

	return stats, nil
}

// ===== EXPORT =====

var exportHeaders = []string{"ID", "Name (KO)", "Name", "Brand", "Category", "Monthly Price", "Original Price", "Rating", "Status"}

// ExportProductsToExcel writes the filtered catalog into an .xlsx
// workbook for operator use.
func (s *productService) ExportProductsToExcel(ctx context.Context, filters repositories.ProductFilters) ([]byte, error) {
	products, _, err := s.repo.Product().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, h := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, fmt.Sprintf("%s1", col), h)
	}

	for row, p := range products {
		values := []interface{}{
			p.ID,
			p.NameKo,
			deref(p.Name),
			deref(p.Brand),
			string(p.CategoryID),
			p.MonthlyPrice,
			derefFloat(p.OriginalPrice),
			p.Rating,
			string(p.Status),
		}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row+2), v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write export workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

// ===== CACHE + EVENTS =====

func (s *productService) invalidateCatalogCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "product:*"); err != nil {
		s.logger.Warn("Failed to invalidate product cache", "error", err)
	}
	if err := s.cache.Delete(ctx, cache.CategoriesKey()); err != nil {
		s.logger.Warn("Failed to invalidate categories cache", "error", err)
	}
}

func (s *productService) publishDraftReviewed(ctx context.Context, draft *models.ProductDraft, reviewerID, reason string) {
	if s.publisher == nil {
		return
	}
	event := events.NewCatalogEvent(events.EventDraftReviewed, events.DraftReviewedEvent{
		DraftID:    draft.ID,
		Status:     draft.Status,
		ReviewerID: reviewerID,
		Reason:     reason,
	})
	if err := s.publisher.PublishCatalogEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish draft reviewed event", "draft_id", draft.ID, "error", err)
	}
}

func (s *productService) publishProductPublished(ctx context.Context, product *models.Product, draftID uint) {
	if s.publisher == nil {
		return
	}
	event := events.NewCatalogEvent(events.EventProductPublished, events.ProductPublishedEvent{
		ProductID:  product.ID,
		DraftID:    &draftID,
		NameKo:     product.NameKo,
		CategoryID: product.CategoryID,
	})
	if err := s.publisher.PublishCatalogEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish product published event", "product_id", product.ID, "error", err)
	}
}
