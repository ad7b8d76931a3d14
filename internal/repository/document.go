package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/common"
	"github.com/homelend/docflow/internal/entity"
)

type documentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	return &documentRepository{pool: pool, logger: logger}
}

const documentColumns = `id, application_id, doc_type, filename, uploaded_at, processed_at, fields, metadata, issues, verified`

func (r *documentRepository) Insert(ctx context.Context, doc *entity.Document) error {
	fields, meta, issues, err := marshalDocumentJSON(doc)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		doc.ID, doc.ApplicationID, string(doc.Type), doc.Filename,
		doc.UploadedAt, doc.ProcessedAt, fields, meta, issues, doc.Verified,
	)
	if err != nil {
		r.logger.Error("failed to insert document", "document_id", doc.ID, "error", err)
		return err
	}
	return nil
}

func (r *documentRepository) Update(ctx context.Context, doc *entity.Document) error {
	fields, meta, issues, err := marshalDocumentJSON(doc)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET doc_type = $2, processed_at = $3, fields = $4, metadata = $5, issues = $6, verified = $7
		WHERE id = $1`,
		doc.ID, string(doc.Type), doc.ProcessedAt, fields, meta, issues, doc.Verified,
	)
	if err != nil {
		r.logger.Error("failed to update document", "document_id", doc.ID, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		// first sight of this document: upsert path for uploads persisted elsewhere
		return r.Insert(ctx, doc)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.WrapError(common.ErrNotFound, "document "+id.String())
	}
	return doc, err
}

func (r *documentRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE application_id = $1
		ORDER BY uploaded_at`, applicationID)
	if err != nil {
		r.logger.Error("failed to list documents", "application_id", applicationID, "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *documentRepository) ListByApplicationAndTypes(ctx context.Context, applicationID uuid.UUID, types []constants.DocumentType) ([]*entity.Document, error) {
	typeStrs := make([]string, len(types))
	for i, t := range types {
		typeStrs[i] = string(t)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE application_id = $1 AND doc_type = ANY($2)
		ORDER BY uploaded_at`, applicationID, typeStrs)
	if err != nil {
		r.logger.Error("failed to list documents by type", "application_id", applicationID, "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func marshalDocumentJSON(doc *entity.Document) (fields, meta, issues []byte, err error) {
	if fields, err = json.Marshal(doc.Fields); err != nil {
		return nil, nil, nil, err
	}
	if doc.Metadata != nil {
		if meta, err = json.Marshal(doc.Metadata); err != nil {
			return nil, nil, nil, err
		}
	}
	if issues, err = json.Marshal(doc.Issues); err != nil {
		return nil, nil, nil, err
	}
	return fields, meta, issues, nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		d           entity.Document
		docType     string
		processedAt *time.Time
		fields      []byte
		meta        []byte
		issues      []byte
	)
	err := row.Scan(&d.ID, &d.ApplicationID, &docType, &d.Filename,
		&d.UploadedAt, &processedAt, &fields, &meta, &issues, &d.Verified)
	if err != nil {
		return nil, err
	}
	d.Type = constants.DocumentType(docType)
	d.ProcessedAt = processedAt
	if err := unmarshalDocumentJSON(&d, fields, meta, issues); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDocuments(rows pgx.Rows) ([]*entity.Document, error) {
	var out []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func unmarshalDocumentJSON(d *entity.Document, fields, meta, issues []byte) error {
	d.Fields = entity.FieldMap{}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &d.Fields); err != nil {
			return err
		}
	}
	if len(meta) > 0 {
		var m entity.ExtractionMetadata
		if err := json.Unmarshal(meta, &m); err == nil {
			d.Metadata = &m
		}
	}
	d.Issues = []entity.Issue{}
	if len(issues) > 0 {
		if err := json.Unmarshal(issues, &d.Issues); err != nil {
			return err
		}
	}
	return nil
}
