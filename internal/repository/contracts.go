package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

// DocumentRepository is the storage collaborator for documents.
// Documents are soft-retained: there is no delete.
type DocumentRepository interface {
	Insert(ctx context.Context, doc *entity.Document) error
	// Update persists a document's categorized type, structured fields,
	// metadata, issues and verified flag.
	Update(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Document, error)
	ListByApplicationAndTypes(ctx context.Context, applicationID uuid.UUID, types []constants.DocumentType) ([]*entity.Document, error)
}

// ApplicationRepository is the storage collaborator for applications.
type ApplicationRepository interface {
	Insert(ctx context.Context, app *entity.Application) error
	// GetByID loads the application including its documents.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage constants.StageID, progress int) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ApplicationStatus) error
}
