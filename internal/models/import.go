package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportJobStatus string

const (
	ImportPending    ImportJobStatus = "pending"
	ImportProcessing ImportJobStatus = "processing"
	ImportCompleted  ImportJobStatus = "completed"
	ImportFailed     ImportJobStatus = "failed"
)

// ImportJob is the persisted record of one spreadsheet upload.
type ImportJob struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"` // UUID
	UploaderID string `json:"uploader_id" gorm:"not null;index;size:255"`

	// File info
	FileName string `json:"file_name" gorm:"not null;size:255"`
	FileSize int64  `json:"file_size" gorm:"not null"`

	Status ImportJobStatus `json:"status" gorm:"default:pending;index"`

	// Processing counters
	TotalRows          int `json:"total_rows"`
	SuccessfullyParsed int `json:"successfully_parsed"`
	ErrorCount         int `json:"error_count"`

	// Row-level errors for operator diagnosis ([]RowError as JSON)
	Errors datatypes.JSON `json:"errors" gorm:"type:jsonb"`

	// Failure reason when the whole import aborted
	FailureReason *string `json:"failure_reason" gorm:"size:1000"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}

// RowError records one non-blank data row the importer could not turn into
// an acceptable draft. Row is the 1-based data row index.
type RowError struct {
	Row          int      `json:"row"`
	Error        string   `json:"error"`
	OriginalData []string `json:"original_data"`
}

type ImportStats struct {
	TotalRows          int `json:"total_rows"`
	SuccessfullyParsed int `json:"successfully_parsed"`
	Errors             int `json:"errors"`
}

// ImportReport is the in-memory result of one import call. Drafts and
// errors keep source row order; blank rows appear in neither.
type ImportReport struct {
	JobID  string          `json:"job_id,omitempty"`
	Drafts []*ProductDraft `json:"drafts"`
	Stats  ImportStats     `json:"stats"`
	Errors []RowError      `json:"errors"`
}
