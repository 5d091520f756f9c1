package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/livingrent/storefront-service/internal/events"
	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/repositories"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/livingrent/storefront-service/internal/validator"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportService ingests supplier spreadsheets into reviewable product
// drafts. One call handles one file; rows are processed sequentially in
// source order.
type ImportService interface {
	ImportProductsFromFile(ctx context.Context, file io.Reader, fileName string, fileSize int64, uploaderID string) (*models.ImportReport, error)
	GetImportJob(ctx context.Context, id string) (*models.ImportJob, error)
	ListImportJobs(ctx context.Context, uploaderID string, limit, offset int) ([]*models.ImportJob, int64, error)
}

type importService struct {
	repo      repositories.Repository
	resolver  MappingResolver
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

// NewImportService wires the import pipeline. repo and publisher may be
// nil for dry runs that only need the in-memory report.
func NewImportService(
	repo repositories.Repository,
	resolver MappingResolver,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) ImportService {
	return &importService{
		repo:      repo,
		resolver:  resolver,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// ImportProductsFromFile reads an .xlsx stream, resolves the column
// mapping once from a small sample, then folds every data row into a
// draft. Row-level problems are recovered and reported; a sheet that
// yields no rows at all, or a failed mapping resolution, fails the
// whole import.
func (s *importService) ImportProductsFromFile(ctx context.Context, file io.Reader, fileName string, fileSize int64, uploaderID string) (*models.ImportReport, error) {
	sheetName, rows, err := readFirstSheet(file, fileName)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	sample := SheetSample{
		FileName:  fileName,
		SheetName: sheetName,
		Header:    header,
		Rows:      sampleRows(rows[1:]),
	}

	job := s.startJob(ctx, fileName, fileSize, uploaderID, len(rows)-1)

	resolution, err := s.resolver.Resolve(ctx, sample)
	if err != nil {
		s.failJob(ctx, job, err)
		return nil, err
	}

	s.logger.Info("Column mapping resolved",
		"file", fileName,
		"sheet", sheetName,
		"confidence", resolution.Confidence)

	transformer := newRowTransformer(&resolution.Mapping, fileName, sheetName)

	report := &models.ImportReport{}
	// TotalRows is fixed up front; blank rows later reduce neither it nor
	// the error count.
	report.Stats.TotalRows = len(rows) - 1
	if job != nil {
		report.JobID = job.ID
	}

	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowIndex := i + 1

		draft := transformer.Transform(header, row, rowIndex)

		if err := s.validator.ValidateDraft(draft); err != nil {
			report.Errors = append(report.Errors, models.RowError{
				Row:          rowIndex,
				Error:        err.Error(),
				OriginalData: row,
			})
			continue
		}

		report.Drafts = append(report.Drafts, draft)
		report.Stats.SuccessfullyParsed++
	}
	report.Stats.Errors = len(report.Errors)

	if err := s.persistDrafts(ctx, report.Drafts); err != nil {
		s.failJob(ctx, job, err)
		return nil, fmt.Errorf("failed to persist drafts: %w", err)
	}

	s.completeJob(ctx, job, report)
	s.publishCompleted(ctx, job, fileName, uploaderID, report)

	s.logger.Info("Import finished",
		"file", fileName,
		"total_rows", report.Stats.TotalRows,
		"parsed", report.Stats.SuccessfullyParsed,
		"errors", report.Stats.Errors)

	return report, nil
}

func (s *importService) GetImportJob(ctx context.Context, id string) (*models.ImportJob, error) {
	if s.repo == nil {
		return nil, ErrImportJobNotFound
	}
	job, err := s.repo.ImportJob().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrImportJobNotFound
		}
		return nil, fmt.Errorf("failed to get import job: %w", err)
	}
	return job, nil
}

func (s *importService) ListImportJobs(ctx context.Context, uploaderID string, limit, offset int) ([]*models.ImportJob, int64, error) {
	if s.repo == nil {
		return nil, 0, nil
	}
	jobs, total, err := s.repo.ImportJob().ListByUploader(ctx, nil, uploaderID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list import jobs: %w", err)
	}
	return jobs, total, nil
}

// readFirstSheet opens the workbook and returns the first sheet holding a
// header plus at least one data row. Structural emptiness is fatal.
func readFirstSheet(file io.Reader, fileName string) (string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return "", nil, &MalformedInputError{File: fileName, Reason: fmt.Sprintf("cannot open workbook: %v", err)}
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", nil, &MalformedInputError{File: fileName, Reason: fmt.Sprintf("cannot read sheet %q: %v", sheet, err)}
		}
		if len(rows) < 2 || isBlankRow(rows[0]) {
			continue
		}
		return sheet, rows, nil
	}

	return "", nil, &MalformedInputError{File: fileName, Reason: "no sheet with a header row and at least one data row"}
}

// sampleRows picks the first non-blank data rows for mapping resolution.
func sampleRows(dataRows [][]string) [][]string {
	sample := make([][]string, 0, sampleRowLimit)
	for _, row := range dataRows {
		if isBlankRow(row) {
			continue
		}
		sample = append(sample, row)
		if len(sample) == sampleRowLimit {
			break
		}
	}
	return sample
}

// ===== JOB LIFECYCLE =====

func (s *importService) startJob(ctx context.Context, fileName string, fileSize int64, uploaderID string, totalRows int) *models.ImportJob {
	if s.repo == nil {
		return nil
	}

	now := time.Now().UTC()
	job := &models.ImportJob{
		ID:         uuid.NewString(),
		UploaderID: uploaderID,
		FileName:   fileName,
		FileSize:   fileSize,
		Status:     models.ImportProcessing,
		TotalRows:  totalRows,
		StartedAt:  &now,
	}
	if err := s.repo.ImportJob().Create(ctx, nil, job); err != nil {
		s.logger.Warn("Failed to record import job", "file", fileName, "error", err)
		return nil
	}
	return job
}

func (s *importService) failJob(ctx context.Context, job *models.ImportJob, cause error) {
	if job != nil && s.repo != nil {
		now := time.Now().UTC()
		reason := cause.Error()
		job.Status = models.ImportFailed
		job.FailureReason = &reason
		job.CompletedAt = &now
		if err := s.repo.ImportJob().Update(ctx, nil, job); err != nil {
			s.logger.Warn("Failed to mark import job failed", "job_id", job.ID, "error", err)
		}
	}

	if s.publisher != nil && job != nil {
		event := events.NewCatalogEvent(events.EventImportFailed, events.ImportFailedEvent{
			JobID:      job.ID,
			FileName:   job.FileName,
			UploaderID: job.UploaderID,
			Reason:     cause.Error(),
		})
		if err := s.publisher.PublishCatalogEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish import failed event", "job_id", job.ID, "error", err)
		}
	}
}

func (s *importService) completeJob(ctx context.Context, job *models.ImportJob, report *models.ImportReport) {
	if job == nil || s.repo == nil {
		return
	}

	now := time.Now().UTC()
	job.Status = models.ImportCompleted
	job.TotalRows = report.Stats.TotalRows
	job.SuccessfullyParsed = report.Stats.SuccessfullyParsed
	job.ErrorCount = report.Stats.Errors
	job.CompletedAt = &now

	if len(report.Errors) > 0 {
		if data, err := json.Marshal(report.Errors); err == nil {
			job.Errors = data
		}
	}

	if err := s.repo.ImportJob().Update(ctx, nil, job); err != nil {
		s.logger.Warn("Failed to finalize import job", "job_id", job.ID, "error", err)
	}
}

func (s *importService) persistDrafts(ctx context.Context, drafts []*models.ProductDraft) error {
	if s.repo == nil || len(drafts) == 0 {
		return nil
	}
	return s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.repo.Draft().CreateBatch(ctx, tx, drafts)
	})
}

func (s *importService) publishCompleted(ctx context.Context, job *models.ImportJob, fileName, uploaderID string, report *models.ImportReport) {
	if s.publisher == nil {
		return
	}

	payload := events.ImportCompletedEvent{
		FileName:           fileName,
		UploaderID:         uploaderID,
		TotalRows:          report.Stats.TotalRows,
		SuccessfullyParsed: report.Stats.SuccessfullyParsed,
		Errors:             report.Stats.Errors,
	}
	if job != nil {
		payload.JobID = job.ID
	}

	event := events.NewCatalogEvent(events.EventImportCompleted, payload)
	if err := s.publisher.PublishCatalogEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish import completed event", "file", fileName, "error", err)
	}
}
