package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/livingrent/storefront-service/internal/events"
	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ===== REPOSITORY MOCKS =====

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	args := m.Called(ctx, tx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	args := m.Called(ctx, tx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ProductFilters) ([]*models.Product, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, tx *gorm.DB) (map[models.CategoryID]int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(map[models.CategoryID]int64), args.Error(1)
}

func (m *MockProductRepository) ListCategories(ctx context.Context, tx *gorm.DB) ([]*models.Category, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockProductRepository) SeedCategories(ctx context.Context, tx *gorm.DB, categories []*models.Category) error {
	args := m.Called(ctx, tx, categories)
	return args.Error(0)
}

type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) Create(ctx context.Context, tx *gorm.DB, draft *models.ProductDraft) error {
	args := m.Called(ctx, tx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) CreateBatch(ctx context.Context, tx *gorm.DB, drafts []*models.ProductDraft) error {
	args := m.Called(ctx, tx, drafts)
	return args.Error(0)
}

func (m *MockDraftRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProductDraft, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDraft), args.Error(1)
}

func (m *MockDraftRepository) Update(ctx context.Context, tx *gorm.DB, draft *models.ProductDraft) error {
	args := m.Called(ctx, tx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.DraftFilters) ([]*models.ProductDraft, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.ProductDraft), args.Get(1).(int64), args.Error(2)
}

func (m *MockDraftRepository) CountByStatus(ctx context.Context, tx *gorm.DB) (map[models.DraftStatus]int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(map[models.DraftStatus]int64), args.Error(1)
}

// MockRepository aggregates the sub-repository mocks. Transactions run the
// callback directly with a nil tx.
type MockRepository struct {
	product  *MockProductRepository
	draft    *MockDraftRepository
	rental   *MockRentalRepository
	wishlist *MockWishlistRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		product:  new(MockProductRepository),
		draft:    new(MockDraftRepository),
		rental:   new(MockRentalRepository),
		wishlist: new(MockWishlistRepository),
	}
}

func (m *MockRepository) Product() repositories.ProductRepository     { return m.product }
func (m *MockRepository) Draft() repositories.DraftRepository         { return m.draft }
func (m *MockRepository) Rental() repositories.RentalRepository       { return m.rental }
func (m *MockRepository) Wishlist() repositories.WishlistRepository   { return m.wishlist }
func (m *MockRepository) ImportJob() repositories.ImportJobRepository { return nil }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// ===== TESTS =====

func reviewableDraft() *models.ProductDraft {
	nameKo := "디오스 오브제컬렉션"
	brand := "LG"
	price := 55000.0
	rating := 4.5
	category := models.CategoryRefrigerator
	draft := &models.ProductDraft{
		ID:           42,
		NameKo:       &nameKo,
		Brand:        &brand,
		MonthlyPrice: &price,
		Rating:       &rating,
		CategoryID:   &category,
		SourceFile:   "lg-2025.xlsx",
		RowIndex:     1,
		Status:       models.DraftPending,
	}
	draft.Specs.Set("모델명", models.StringValue("M873GBB031"))
	return draft
}

func newTestProductService(repo repositories.Repository, publisher events.EventPublisher) ProductService {
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	return NewProductService(repo, nil, publisher, logger)
}

func TestApproveDraft(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(slog.Default())
	svc := newTestProductService(repo, publisher)

	draft := reviewableDraft()
	repo.draft.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(42)).Return(draft, nil)
	repo.product.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*models.Product).ID = 7
		}).Return(nil)
	repo.draft.On("Update", mock.Anything, mock.Anything, draft).Return(nil)

	product, err := svc.ApproveDraft(context.Background(), 42, "operator-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "디오스 오브제컬렉션", product.NameKo)
	assert.Equal(t, float64(55000), product.MonthlyPrice)
	assert.Equal(t, models.CategoryRefrigerator, product.CategoryID)
	assert.Equal(t, models.ProductActive, product.Status)
	require.NotNil(t, product.SourceDraftID)
	assert.Equal(t, uint(42), *product.SourceDraftID)

	assert.Equal(t, models.DraftApproved, draft.Status)
	require.NotNil(t, draft.ReviewedBy)
	assert.Equal(t, "operator-1", *draft.ReviewedBy)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventDraftReviewed, published[0].Type)
	assert.Equal(t, events.EventProductPublished, published[1].Type)

	repo.draft.AssertExpectations(t)
	repo.product.AssertExpectations(t)
}

func TestApproveDraft_UncategorizedNeedsCategory(t *testing.T) {
	repo := newMockRepository()
	svc := newTestProductService(repo, nil)

	draft := reviewableDraft()
	uncategorized := models.CategoryUncategorized
	draft.CategoryID = &uncategorized
	draft.Status = models.DraftNeedsReview
	repo.draft.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(42)).Return(draft, nil)

	_, err := svc.ApproveDraft(context.Background(), 42, "operator-1", nil)
	assert.ErrorIs(t, err, ErrDraftNeedsCategory)
}

func TestApproveDraft_OperatorSuppliesCategory(t *testing.T) {
	repo := newMockRepository()
	svc := newTestProductService(repo, nil)

	draft := reviewableDraft()
	uncategorized := models.CategoryUncategorized
	draft.CategoryID = &uncategorized
	draft.Status = models.DraftNeedsReview
	repo.draft.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(42)).Return(draft, nil)
	repo.product.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.draft.On("Update", mock.Anything, mock.Anything, draft).Return(nil)

	chosen := models.CategoryRobotVacuum
	product, err := svc.ApproveDraft(context.Background(), 42, "operator-1", &chosen)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRobotVacuum, product.CategoryID)
}

func TestApproveDraft_AlreadyReviewed(t *testing.T) {
	repo := newMockRepository()
	svc := newTestProductService(repo, nil)

	draft := reviewableDraft()
	draft.Status = models.DraftApproved
	repo.draft.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(42)).Return(draft, nil)

	_, err := svc.ApproveDraft(context.Background(), 42, "operator-1", nil)
	assert.ErrorIs(t, err, ErrDraftNotReviewable)
}

func TestApproveDraft_NotFound(t *testing.T) {
	repo := newMockRepository()
	svc := newTestProductService(repo, nil)

	repo.draft.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ApproveDraft(context.Background(), 99, "operator-1", nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestRejectDraft(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(slog.Default())
	svc := newTestProductService(repo, publisher)

	draft := reviewableDraft()
	repo.draft.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(42)).Return(draft, nil)
	repo.draft.On("Update", mock.Anything, (*gorm.DB)(nil), draft).Return(nil)

	err := svc.RejectDraft(context.Background(), 42, "operator-1", "중복 제품")
	require.NoError(t, err)

	assert.Equal(t, models.DraftRejected, draft.Status)
	require.NotNil(t, draft.ReviewReason)
	assert.Equal(t, "중복 제품", *draft.ReviewReason)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventDraftReviewed, published[0].Type)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := newMockRepository()
	svc := newTestProductService(repo, nil)

	repo.product.On("GetByID", mock.Anything, (*gorm.DB)(nil), uint(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetProduct(context.Background(), 5)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
