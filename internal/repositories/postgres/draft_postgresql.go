package postgres

import (
	"context"
	"fmt"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"gorm.io/gorm"
)

type DraftPostgreSQL struct {
	db *gorm.DB
}

func NewDraftPostgreSQL(db *gorm.DB) repositories.DraftRepository {
	return &DraftPostgreSQL{db: db}
}

func (d *DraftPostgreSQL) Create(ctx context.Context, tx *gorm.DB, draft *models.ProductDraft) error {
	if err := dbOrTx(d.db, tx).WithContext(ctx).Create(draft).Error; err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (d *DraftPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, drafts []*models.ProductDraft) error {
	if len(drafts) == 0 {
		return nil
	}
	// One statement per 100 rows keeps parameter counts bounded.
	if err := dbOrTx(d.db, tx).WithContext(ctx).CreateInBatches(&drafts, 100).Error; err != nil {
		return fmt.Errorf("failed to create drafts: %w", err)
	}
	return nil
}

func (d *DraftPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProductDraft, error) {
	var draft models.ProductDraft
	err := dbOrTx(d.db, tx).WithContext(ctx).First(&draft, id).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (d *DraftPostgreSQL) Update(ctx context.Context, tx *gorm.DB, draft *models.ProductDraft) error {
	if err := dbOrTx(d.db, tx).WithContext(ctx).Save(draft).Error; err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	return nil
}

func (d *DraftPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.DraftFilters) ([]*models.ProductDraft, int64, error) {
	query := dbOrTx(d.db, tx).WithContext(ctx).Model(&models.ProductDraft{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SourceFile != nil {
		query = query.Where("source_file = ?", *filters.SourceFile)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count drafts: %w", err)
	}

	// Review queues read in import order
	query = query.Order("source_file ASC, row_index ASC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var drafts []*models.ProductDraft
	if err := query.Find(&drafts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}

	return drafts, total, nil
}

func (d *DraftPostgreSQL) CountByStatus(ctx context.Context, tx *gorm.DB) (map[models.DraftStatus]int64, error) {
	type row struct {
		Status models.DraftStatus
		Count  int64
	}
	var rows []row
	err := dbOrTx(d.db, tx).WithContext(ctx).
		Model(&models.ProductDraft{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count drafts by status: %w", err)
	}

	counts := make(map[models.DraftStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
