package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/common"
	"github.com/homelend/docflow/internal/entity"
)

// LocalStore is a sqlite-backed implementation of both repositories, used by
// the offline CLI and tests so the pipeline runs without Postgres.
type LocalStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenLocal(path string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &LocalStore{db: db, logger: logger}
	if err := s.bootstrap(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) Close() error { return s.db.Close() }

func (s *LocalStore) bootstrap() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id TEXT PRIMARY KEY,
			applicant_name TEXT NOT NULL,
			applicant_email TEXT NOT NULL DEFAULT '',
			applicant_phone TEXT NOT NULL DEFAULT '',
			purchase_price REAL NOT NULL DEFAULT 0,
			down_payment REAL NOT NULL DEFAULT 0,
			loan_amount REAL NOT NULL DEFAULT 0,
			stage TEXT NOT NULL,
			status TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			blockers TEXT NOT NULL DEFAULT '[]',
			next_actions TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			last_activity_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			application_id TEXT NOT NULL REFERENCES applications(id),
			doc_type TEXT NOT NULL DEFAULT 'generic',
			filename TEXT NOT NULL DEFAULT '',
			uploaded_at TIMESTAMP NOT NULL,
			processed_at TIMESTAMP,
			fields TEXT NOT NULL DEFAULT '{}',
			metadata TEXT,
			issues TEXT NOT NULL DEFAULT '[]',
			verified INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_documents_application ON documents(application_id);
	`)
	return err
}

// --- ApplicationRepository ---

func (s *LocalStore) Insert(ctx context.Context, app *entity.Application) error {
	blockers, _ := json.Marshal(app.Blockers)
	nextActions, _ := json.Marshal(app.NextActions)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications
			(id, applicant_name, applicant_email, applicant_phone,
			 purchase_price, down_payment, loan_amount,
			 stage, status, progress, blockers, next_actions,
			 created_at, updated_at, last_activity_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID.String(), app.ApplicantName, app.ApplicantEmail, app.ApplicantPhone,
		app.PurchasePrice, app.DownPayment, app.LoanAmount,
		string(app.Stage), string(app.Status), app.Progress, string(blockers), string(nextActions),
		app.CreatedAt, app.UpdatedAt, app.LastActivityAt,
	)
	return err
}

func (s *LocalStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var (
		a           entity.Application
		idStr       string
		stage       string
		status      string
		blockers    string
		nextActions string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, applicant_name, applicant_email, applicant_phone,
		       purchase_price, down_payment, loan_amount,
		       stage, status, progress, blockers, next_actions,
		       created_at, updated_at, last_activity_at
		FROM applications WHERE id = ?`, id.String()).Scan(
		&idStr, &a.ApplicantName, &a.ApplicantEmail, &a.ApplicantPhone,
		&a.PurchasePrice, &a.DownPayment, &a.LoanAmount,
		&stage, &status, &a.Progress, &blockers, &nextActions,
		&a.CreatedAt, &a.UpdatedAt, &a.LastActivityAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.WrapError(common.ErrNotFound, "application "+id.String())
	}
	if err != nil {
		return nil, err
	}
	a.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	a.Stage = constants.StageID(stage)
	a.Status = constants.ApplicationStatus(status)
	_ = json.Unmarshal([]byte(blockers), &a.Blockers)
	_ = json.Unmarshal([]byte(nextActions), &a.NextActions)

	docs, err := s.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Documents = docs
	return &a, nil
}

func (s *LocalStore) UpdateStage(ctx context.Context, id uuid.UUID, stage constants.StageID, progress int) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		UPDATE applications SET stage = ?, progress = ?, updated_at = ?, last_activity_at = ? WHERE id = ?`,
		string(stage), progress, now, now, id.String())
	return err
}

func (s *LocalStore) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ApplicationStatus) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		UPDATE applications SET status = ?, updated_at = ?, last_activity_at = ? WHERE id = ?`,
		string(status), now, now, id.String())
	return err
}

// --- DocumentRepository ---

// Docs exposes the store as a DocumentRepository. The store itself satisfies
// ApplicationRepository; document methods live on docStore to keep the two
// Insert signatures apart.
func (s *LocalStore) Docs() DocumentRepository { return &docStore{s} }

type docStore struct{ s *LocalStore }

func (d *docStore) Insert(ctx context.Context, doc *entity.Document) error {
	fields, meta, issues, err := marshalDocumentJSON(doc)
	if err != nil {
		return err
	}
	_, err = d.s.db.ExecContext(ctx, `
		INSERT INTO documents (id, application_id, doc_type, filename, uploaded_at, processed_at, fields, metadata, issues, verified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID.String(), doc.ApplicationID.String(), string(doc.Type), doc.Filename,
		doc.UploadedAt, doc.ProcessedAt, string(fields), nullable(meta), string(issues), doc.Verified,
	)
	return err
}

func (d *docStore) Update(ctx context.Context, doc *entity.Document) error {
	fields, meta, issues, err := marshalDocumentJSON(doc)
	if err != nil {
		return err
	}
	res, err := d.s.db.ExecContext(ctx, `
		UPDATE documents
		SET doc_type = ?, processed_at = ?, fields = ?, metadata = ?, issues = ?, verified = ?
		WHERE id = ?`,
		string(doc.Type), doc.ProcessedAt, string(fields), nullable(meta), string(issues), doc.Verified,
		doc.ID.String(),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return d.Insert(ctx, doc)
	}
	return nil
}

func (d *docStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := d.s.db.QueryRowContext(ctx, `
		SELECT id, application_id, doc_type, filename, uploaded_at, processed_at, fields, metadata, issues, verified
		FROM documents WHERE id = ?`, id.String())
	doc, err := scanLocalDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.WrapError(common.ErrNotFound, "document "+id.String())
	}
	return doc, err
}

func (d *docStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Document, error) {
	return d.s.ListByApplication(ctx, applicationID)
}

func (s *LocalStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, doc_type, filename, uploaded_at, processed_at, fields, metadata, issues, verified
		FROM documents WHERE application_id = ? ORDER BY uploaded_at`, applicationID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Document
	for rows.Next() {
		doc, err := scanLocalDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (d *docStore) ListByApplicationAndTypes(ctx context.Context, applicationID uuid.UUID, types []constants.DocumentType) ([]*entity.Document, error) {
	all, err := d.s.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	var out []*entity.Document
	for _, doc := range all {
		for _, t := range types {
			if doc.Type == t {
				out = append(out, doc)
				break
			}
		}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocalDocument(row rowScanner) (*entity.Document, error) {
	var (
		d           entity.Document
		idStr       string
		appIDStr    string
		docType     string
		processedAt sql.NullTime
		fields      string
		meta        sql.NullString
		issues      string
	)
	err := row.Scan(&idStr, &appIDStr, &docType, &d.Filename,
		&d.UploadedAt, &processedAt, &fields, &meta, &issues, &d.Verified)
	if err != nil {
		return nil, err
	}
	if d.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	if d.ApplicationID, err = uuid.Parse(appIDStr); err != nil {
		return nil, err
	}
	d.Type = constants.DocumentType(docType)
	if processedAt.Valid {
		t := processedAt.Time
		d.ProcessedAt = &t
	}
	var metaBytes []byte
	if meta.Valid && strings.TrimSpace(meta.String) != "" {
		metaBytes = []byte(meta.String)
	}
	if err := unmarshalDocumentJSON(&d, []byte(fields), metaBytes, []byte(issues)); err != nil {
		return nil, err
	}
	return &d, nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
