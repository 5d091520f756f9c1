package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductPostgreSQL struct {
	db *gorm.DB
}

func NewProductPostgreSQL(db *gorm.DB) repositories.ProductRepository {
	return &ProductPostgreSQL{db: db}
}

func (p *ProductPostgreSQL) Create(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	if err := dbOrTx(p.db, tx).WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (p *ProductPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	err := dbOrTx(p.db, tx).WithContext(ctx).
		Preload("Category").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductPostgreSQL) Update(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	if err := dbOrTx(p.db, tx).WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (p *ProductPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := dbOrTx(p.db, tx).WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (p *ProductPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ProductFilters) ([]*models.Product, int64, error) {
	query := dbOrTx(p.db, tx).WithContext(ctx).Model(&models.Product{})

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Brand != nil {
		query = query.Where("brand = ?", *filters.Brand)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.MaxMonthly != nil {
		query = query.Where("monthly_price <= ?", *filters.MaxMonthly)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("name_ko ILIKE ? OR name ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(buildOrderClause(filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "monthly_price": true, "rating": true,
	}))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var products []*models.Product
	if err := query.Preload("Category").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (p *ProductPostgreSQL) CountByCategory(ctx context.Context, tx *gorm.DB) (map[models.CategoryID]int64, error) {
	type row struct {
		CategoryID models.CategoryID
		Count      int64
	}
	var rows []row
	err := dbOrTx(p.db, tx).WithContext(ctx).
		Model(&models.Product{}).
		Select("category_id, COUNT(*) as count").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}

	counts := make(map[models.CategoryID]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}

func (p *ProductPostgreSQL) ListCategories(ctx context.Context, tx *gorm.DB) ([]*models.Category, error) {
	var categories []*models.Category
	err := dbOrTx(p.db, tx).WithContext(ctx).
		Order("position ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (p *ProductPostgreSQL) SeedCategories(ctx context.Context, tx *gorm.DB, categories []*models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	err := dbOrTx(p.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&categories).Error
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}

// buildOrderClause whitelists sortable columns so filters never reach SQL raw.
func buildOrderClause(sortBy, sortOrder string, allowed map[string]bool) string {
	if !allowed[sortBy] {
		sortBy = "created_at"
	}
	if strings.ToLower(sortOrder) != "asc" {
		sortOrder = "desc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
