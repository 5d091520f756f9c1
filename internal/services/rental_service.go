package services

import (
	"context"
	"fmt"
	"time"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"github.com/livingrent/storefront-service/internal/utils"
	"gorm.io/gorm"
)

// RentalService manages the rental lifecycle and per-user wishlists.
type RentalService interface {
	RequestRental(ctx context.Context, userID string, productID uint, periodMonths int) (*models.Rental, error)
	StartRental(ctx context.Context, rentalID uint) (*models.Rental, error)
	ReturnRental(ctx context.Context, rentalID uint) (*models.Rental, error)
	CancelRental(ctx context.Context, rentalID uint, userID string) (*models.Rental, error)
	GetRental(ctx context.Context, rentalID uint) (*models.Rental, error)
	ListRentals(ctx context.Context, filters repositories.RentalFilters) ([]*models.Rental, int64, error)

	AddToWishlist(ctx context.Context, userID string, productID uint) error
	RemoveFromWishlist(ctx context.Context, userID string, productID uint) error
	ListWishlist(ctx context.Context, userID string) ([]*models.WishlistItem, error)
}

type rentalService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewRentalService(repo repositories.Repository, logger utils.Logger) RentalService {
	return &rentalService{
		repo:   repo,
		logger: logger,
	}
}

// ===== RENTAL LIFECYCLE =====

// RequestRental opens a rental in the requested state. The monthly price
// is frozen from the product at request time.
func (s *rentalService) RequestRental(ctx context.Context, userID string, productID uint, periodMonths int) (*models.Rental, error) {
	if periodMonths < 1 || periodMonths > 120 {
		return nil, NewValidationError("period_months", "rental period must be between 1 and 120 months", periodMonths)
	}

	product, err := s.repo.Product().GetByID(ctx, nil, productID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product.Status != models.ProductActive {
		return nil, ErrProductNotFound
	}

	rental := &models.Rental{
		UserID:       userID,
		ProductID:    productID,
		MonthlyPrice: product.MonthlyPrice,
		PeriodMonths: periodMonths,
		Status:       models.RentalRequested,
	}

	if err := s.repo.Rental().Create(ctx, nil, rental); err != nil {
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	s.logger.Info("Rental requested",
		"rental_id", rental.ID,
		"user_id", userID,
		"product_id", productID,
		"period_months", periodMonths)

	return rental, nil
}

func (s *rentalService) StartRental(ctx context.Context, rentalID uint) (*models.Rental, error) {
	return s.transition(ctx, rentalID, models.RentalRequested, func(r *models.Rental) {
		now := time.Now().UTC()
		r.Status = models.RentalActive
		r.StartedAt = &now
	})
}

func (s *rentalService) ReturnRental(ctx context.Context, rentalID uint) (*models.Rental, error) {
	return s.transition(ctx, rentalID, models.RentalActive, func(r *models.Rental) {
		now := time.Now().UTC()
		r.Status = models.RentalReturned
		r.ReturnedAt = &now
	})
}

// CancelRental cancels a not-yet-started rental. Only the requesting user
// may cancel.
func (s *rentalService) CancelRental(ctx context.Context, rentalID uint, userID string) (*models.Rental, error) {
	rental, err := s.GetRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != userID {
		return nil, ErrRentalNotFound
	}
	if rental.Status != models.RentalRequested {
		return nil, ErrRentalInvalidTransition
	}

	rental.Status = models.RentalCancelled
	if err := s.repo.Rental().Update(ctx, nil, rental); err != nil {
		return nil, fmt.Errorf("failed to cancel rental: %w", err)
	}

	s.logger.Info("Rental cancelled", "rental_id", rentalID, "user_id", userID)
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, rentalID uint) (*models.Rental, error) {
	rental, err := s.repo.Rental().GetByID(ctx, nil, rentalID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context, filters repositories.RentalFilters) ([]*models.Rental, int64, error) {
	rentals, total, err := s.repo.Rental().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rentals: %w", err)
	}
	return rentals, total, nil
}

// transition moves a rental from exactly one expected status into the
// next one, inside a transaction so concurrent updates cannot double-fire.
func (s *rentalService) transition(ctx context.Context, rentalID uint, from models.RentalStatus, apply func(*models.Rental)) (*models.Rental, error) {
	var rental *models.Rental
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		r, err := s.repo.Rental().GetByID(ctx, tx, rentalID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrRentalNotFound
			}
			return fmt.Errorf("failed to get rental: %w", err)
		}
		if r.Status != from {
			return ErrRentalInvalidTransition
		}

		apply(r)
		if err := s.repo.Rental().Update(ctx, tx, r); err != nil {
			return fmt.Errorf("failed to update rental: %w", err)
		}
		rental = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Rental status changed",
		"rental_id", rental.ID,
		"from", from,
		"to", rental.Status)

	return rental, nil
}

// ===== WISHLIST =====

func (s *rentalService) AddToWishlist(ctx context.Context, userID string, productID uint) error {
	exists, err := s.repo.Wishlist().Exists(ctx, nil, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to check wishlist: %w", err)
	}
	if exists {
		return ErrWishlistDuplicate
	}

	if _, err := s.repo.Product().GetByID(ctx, nil, productID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.repo.Wishlist().Add(ctx, nil, item); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

func (s *rentalService) RemoveFromWishlist(ctx context.Context, userID string, productID uint) error {
	if err := s.repo.Wishlist().Remove(ctx, nil, userID, productID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

func (s *rentalService) ListWishlist(ctx context.Context, userID string) ([]*models.WishlistItem, error) {
	items, err := s.repo.Wishlist().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}
