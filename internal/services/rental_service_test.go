package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, tx *gorm.DB, rental *models.Rental) error {
	args := m.Called(ctx, tx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Rental, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalRepository) Update(ctx context.Context, tx *gorm.DB, rental *models.Rental) error {
	args := m.Called(ctx, tx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.RentalFilters) ([]*models.Rental, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.Rental), args.Get(1).(int64), args.Error(2)
}

func (m *MockRentalRepository) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) Add(ctx context.Context, tx *gorm.DB, item *models.WishlistItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockWishlistRepository) Remove(ctx context.Context, tx *gorm.DB, userID string, productID uint) error {
	args := m.Called(ctx, tx, userID, productID)
	return args.Error(0)
}

func (m *MockWishlistRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.WishlistItem, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).([]*models.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepository) Exists(ctx context.Context, tx *gorm.DB, userID string, productID uint) (bool, error) {
	args := m.Called(ctx, tx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func newTestRentalService(repo repositories.Repository) RentalService {
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	return NewRentalService(repo, logger)
}

func activeProduct() *models.Product {
	return &models.Product{
		ID:           7,
		NameKo:       "디오스 오브제컬렉션",
		MonthlyPrice: 55000,
		CategoryID:   models.CategoryRefrigerator,
		Status:       models.ProductActive,
	}
}

func TestRequestRental(t *testing.T) {
	repo := newMockRepository()
	svc := newTestRentalService(repo)

	repo.product.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(7)).Return(activeProduct(), nil)
	repo.rental.On("Create", mock.Anything, (*gorm.DB)(nil), mock.AnythingOfType("*models.Rental")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*models.Rental).ID = 11
		}).Return(nil)

	rental, err := svc.RequestRental(context.Background(), "user-1", 7, 36)
	require.NoError(t, err)

	assert.Equal(t, models.RentalRequested, rental.Status)
	// Monthly price is frozen from the product at request time.
	assert.Equal(t, float64(55000), rental.MonthlyPrice)
	assert.Equal(t, 36, rental.PeriodMonths)
}

func TestRequestRental_HiddenProduct(t *testing.T) {
	repo := newMockRepository()
	svc := newTestRentalService(repo)

	hidden := activeProduct()
	hidden.Status = models.ProductHidden
	repo.product.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(7)).Return(hidden, nil)

	_, err := svc.RequestRental(context.Background(), "user-1", 7, 12)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRequestRental_BadPeriod(t *testing.T) {
	repo := newMockRepository()
	svc := newTestRentalService(repo)

	for _, months := range []int{0, -1, 121} {
		_, err := svc.RequestRental(context.Background(), "user-1", 7, months)
		assert.True(t, IsValidation(err), "period %d", months)
	}
}

func TestRentalLifecycle_Transitions(t *testing.T) {
	repo := newMockRepository()
	svc := newTestRentalService(repo)

	rental := &models.Rental{ID: 11, UserID: "user-1", ProductID: 7, Status: models.RentalRequested}
	repo.rental.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(11)).Return(rental, nil)
	repo.rental.On("Update", mock.Anything, (*gorm.DB)(nil), rental).Return(nil)

	started, err := svc.StartRental(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, models.RentalActive, started.Status)
	require.NotNil(t, started.StartedAt)

	// Starting twice is refused.
	_, err = svc.StartRental(context.Background(), 11)
	assert.ErrorIs(t, err, ErrRentalInvalidTransition)

	returned, err := svc.ReturnRental(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, models.RentalReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)
}

func TestCancelRental_OnlyOwnerAndOnlyRequested(t *testing.T) {
	repo := newMockRepository()
	svc := newTestRentalService(repo)

	rental := &models.Rental{ID: 11, UserID: "user-1", Status: models.RentalRequested}
	repo.rental.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(11)).Return(rental, nil)
	repo.rental.On("Update", mock.Anything, (*gorm.DB)(nil), rental).Return(nil)

	_, err := svc.CancelRental(context.Background(), 11, "someone-else")
	assert.ErrorIs(t, err, ErrRentalNotFound)

	cancelled, err := svc.CancelRental(context.Background(), 11, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RentalCancelled, cancelled.Status)

	_, err = svc.CancelRental(context.Background(), 11, "user-1")
	assert.ErrorIs(t, err, ErrRentalInvalidTransition)
}

func TestWishlist(t *testing.T) {
	repo := newMockRepository()
	svc := newTestRentalService(repo)

	repo.wishlist.On("Exists", mock.Anything, (*gorm.DB)(nil), "user-1", uint(7)).Return(false, nil).Once()
	repo.product.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(7)).Return(activeProduct(), nil)
	repo.wishlist.On("Add", mock.Anything, (*gorm.DB)(nil), mock.AnythingOfType("*models.WishlistItem")).Return(nil)

	require.NoError(t, svc.AddToWishlist(context.Background(), "user-1", 7))

	repo.wishlist.On("Exists", mock.Anything, (*gorm.DB)(nil), "user-1", uint(7)).Return(true, nil).Once()
	assert.ErrorIs(t, svc.AddToWishlist(context.Background(), "user-1", 7), ErrWishlistDuplicate)
}
