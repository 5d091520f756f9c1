package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/livingrent/storefront-service/internal/models"
)

// EventType represents different types of catalog events
type EventType string

const (
	// Import events
	EventImportCompleted EventType = "import.completed"
	EventImportFailed    EventType = "import.failed"

	// Draft review events
	EventDraftReviewed EventType = "draft.reviewed"

	// Catalog events
	EventProductPublished EventType = "product.published"
)

// CatalogEvent is the base event structure for all catalog events
type CatalogEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewCatalogEvent builds an event envelope with a fresh id and timestamp
func NewCatalogEvent(eventType EventType, data interface{}) *CatalogEvent {
	return &CatalogEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "storefront-service",
		Version:   "1.0",
		Data:      data,
	}
}

// Import event payloads

type ImportCompletedEvent struct {
	JobID              string `json:"job_id"`
	FileName           string `json:"file_name"`
	UploaderID         string `json:"uploader_id"`
	TotalRows          int    `json:"total_rows"`
	SuccessfullyParsed int    `json:"successfully_parsed"`
	Errors             int    `json:"errors"`
}

type ImportFailedEvent struct {
	JobID      string `json:"job_id"`
	FileName   string `json:"file_name"`
	UploaderID string `json:"uploader_id"`
	Reason     string `json:"reason"`
}

// Draft review event payloads

type DraftReviewedEvent struct {
	DraftID    uint               `json:"draft_id"`
	Status     models.DraftStatus `json:"status"`
	ReviewerID string             `json:"reviewer_id"`
	Reason     string             `json:"reason,omitempty"`
}

// Catalog event payloads

type ProductPublishedEvent struct {
	ProductID  uint              `json:"product_id"`
	DraftID    *uint             `json:"draft_id,omitempty"`
	NameKo     string            `json:"name_ko"`
	CategoryID models.CategoryID `json:"category_id"`
}
