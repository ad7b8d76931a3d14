package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/homelend/docflow/constants"
)

// Document represents an uploaded document for data transfer between layers.
type Document struct {
	ID            uuid.UUID              `json:"id"`
	ApplicationID uuid.UUID              `json:"application_id"`
	Type          constants.DocumentType `json:"type"`
	Filename      string                 `json:"filename"`
	UploadedAt    time.Time              `json:"uploaded_at"`
	ProcessedAt   *time.Time             `json:"processed_at,omitempty"`
	Fields        FieldMap               `json:"fields"`
	Metadata      *ExtractionMetadata    `json:"metadata,omitempty"`
	Issues        []Issue                `json:"issues"`
	Verified      bool                   `json:"verified"`
}

// FieldMap holds extracted values keyed by field name. Values are strings or
// numbers; absent keys mean the field was not found.
type FieldMap map[string]any

// ExtractionMetadata records how a document's fields were produced.
type ExtractionMetadata struct {
	ProcessedAt time.Time `json:"processed_at"`
	Confidence  int       `json:"confidence"` // 0-100
	Edited      bool      `json:"edited"`
}

// Issue is a severity-tagged finding against a document. Immutable once produced.
type Issue struct {
	Severity constants.Severity `json:"severity"`
	Message  string             `json:"message"`
}
