package postgres

import (
	"context"
	"fmt"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"gorm.io/gorm"
)

type RentalPostgreSQL struct {
	db *gorm.DB
}

func NewRentalPostgreSQL(db *gorm.DB) repositories.RentalRepository {
	return &RentalPostgreSQL{db: db}
}

func (r *RentalPostgreSQL) Create(ctx context.Context, tx *gorm.DB, rental *models.Rental) error {
	if err := dbOrTx(r.db, tx).WithContext(ctx).Create(rental).Error; err != nil {
		return fmt.Errorf("failed to create rental: %w", err)
	}
	return nil
}

func (r *RentalPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Rental, error) {
	var rental models.Rental
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Preload("Product").
		First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *RentalPostgreSQL) Update(ctx context.Context, tx *gorm.DB, rental *models.Rental) error {
	if err := dbOrTx(r.db, tx).WithContext(ctx).Save(rental).Error; err != nil {
		return fmt.Errorf("failed to update rental: %w", err)
	}
	return nil
}

func (r *RentalPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.RentalFilters) ([]*models.Rental, int64, error) {
	query := dbOrTx(r.db, tx).WithContext(ctx).Model(&models.Rental{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rentals: %w", err)
	}

	query = query.Order("created_at DESC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var rentals []*models.Rental
	if err := query.Preload("Product").Find(&rentals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list rentals: %w", err)
	}

	return rentals, total, nil
}

func (r *RentalPostgreSQL) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := dbOrTx(r.db, tx).WithContext(ctx).
		Model(&models.Rental{}).
		Where("status = ?", models.RentalActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active rentals: %w", err)
	}
	return count, nil
}

type WishlistPostgreSQL struct {
	db *gorm.DB
}

func NewWishlistPostgreSQL(db *gorm.DB) repositories.WishlistRepository {
	return &WishlistPostgreSQL{db: db}
}

func (w *WishlistPostgreSQL) Add(ctx context.Context, tx *gorm.DB, item *models.WishlistItem) error {
	if err := dbOrTx(w.db, tx).WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

func (w *WishlistPostgreSQL) Remove(ctx context.Context, tx *gorm.DB, userID string, productID uint) error {
	err := dbOrTx(w.db, tx).WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

func (w *WishlistPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.WishlistItem, error) {
	var items []*models.WishlistItem
	err := dbOrTx(w.db, tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Product").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

func (w *WishlistPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, userID string, productID uint) (bool, error) {
	var count int64
	err := dbOrTx(w.db, tx).WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist item: %w", err)
	}
	return count > 0, nil
}
