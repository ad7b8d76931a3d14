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

type applicationRepository struct {
	pool   *pgxpool.Pool
	docs   DocumentRepository
	logger *slog.Logger
}

func NewApplicationRepository(pool *pgxpool.Pool, docs DocumentRepository, logger *slog.Logger) ApplicationRepository {
	return &applicationRepository{pool: pool, docs: docs, logger: logger}
}

func (r *applicationRepository) Insert(ctx context.Context, app *entity.Application) error {
	blockers, err := json.Marshal(app.Blockers)
	if err != nil {
		return err
	}
	nextActions, err := json.Marshal(app.NextActions)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO applications
			(id, applicant_name, applicant_email, applicant_phone,
			 purchase_price, down_payment, loan_amount,
			 stage, status, progress, blockers, next_actions,
			 created_at, updated_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		app.ID, app.ApplicantName, app.ApplicantEmail, app.ApplicantPhone,
		app.PurchasePrice, app.DownPayment, app.LoanAmount,
		string(app.Stage), string(app.Status), app.Progress, blockers, nextActions,
		app.CreatedAt, app.UpdatedAt, app.LastActivityAt,
	)
	if err != nil {
		r.logger.Error("failed to insert application", "application_id", app.ID, "error", err)
		return err
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var (
		a           entity.Application
		stage       string
		status      string
		blockers    []byte
		nextActions []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, applicant_name, applicant_email, applicant_phone,
		       purchase_price, down_payment, loan_amount,
		       stage, status, progress, blockers, next_actions,
		       created_at, updated_at, last_activity_at
		FROM applications WHERE id = $1`, id).Scan(
		&a.ID, &a.ApplicantName, &a.ApplicantEmail, &a.ApplicantPhone,
		&a.PurchasePrice, &a.DownPayment, &a.LoanAmount,
		&stage, &status, &a.Progress, &blockers, &nextActions,
		&a.CreatedAt, &a.UpdatedAt, &a.LastActivityAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.WrapError(common.ErrNotFound, "application "+id.String())
	}
	if err != nil {
		r.logger.Error("failed to load application", "application_id", id, "error", err)
		return nil, err
	}
	a.Stage = constants.StageID(stage)
	a.Status = constants.ApplicationStatus(status)
	if len(blockers) > 0 {
		_ = json.Unmarshal(blockers, &a.Blockers)
	}
	if len(nextActions) > 0 {
		_ = json.Unmarshal(nextActions, &a.NextActions)
	}

	docs, err := r.docs.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Documents = docs
	return &a, nil
}

func (r *applicationRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage constants.StageID, progress int) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		UPDATE applications
		SET stage = $2, progress = $3, updated_at = $4, last_activity_at = $4
		WHERE id = $1`,
		id, string(stage), progress, now,
	)
	if err != nil {
		r.logger.Error("failed to update application stage", "application_id", id, "error", err)
	}
	return err
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ApplicationStatus) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		UPDATE applications
		SET status = $2, updated_at = $3, last_activity_at = $3
		WHERE id = $1`,
		id, string(status), now,
	)
	if err != nil {
		r.logger.Error("failed to update application status", "application_id", id, "error", err)
	}
	return err
}
