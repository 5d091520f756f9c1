package postgres

import (
	"context"
	"fmt"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"gorm.io/gorm"
)

type ImportJobPostgreSQL struct {
	db *gorm.DB
}

func NewImportJobPostgreSQL(db *gorm.DB) repositories.ImportJobRepository {
	return &ImportJobPostgreSQL{db: db}
}

func (i *ImportJobPostgreSQL) Create(ctx context.Context, tx *gorm.DB, job *models.ImportJob) error {
	if err := dbOrTx(i.db, tx).WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}
	return nil
}

func (i *ImportJobPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ImportJob, error) {
	var job models.ImportJob
	err := dbOrTx(i.db, tx).WithContext(ctx).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (i *ImportJobPostgreSQL) Update(ctx context.Context, tx *gorm.DB, job *models.ImportJob) error {
	if err := dbOrTx(i.db, tx).WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("failed to update import job: %w", err)
	}
	return nil
}

func (i *ImportJobPostgreSQL) ListByUploader(ctx context.Context, tx *gorm.DB, uploaderID string, limit, offset int) ([]*models.ImportJob, int64, error) {
	query := dbOrTx(i.db, tx).WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("uploader_id = ?", uploaderID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count import jobs: %w", err)
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var jobs []*models.ImportJob
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list import jobs: %w", err)
	}

	return jobs, total, nil
}
