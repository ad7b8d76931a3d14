package async

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/analyze"
	"github.com/homelend/docflow/internal/classify"
	"github.com/homelend/docflow/internal/common"
	"github.com/homelend/docflow/internal/entity"
	"github.com/homelend/docflow/internal/extract"
	"github.com/homelend/docflow/internal/pipeline"
	"github.com/homelend/docflow/internal/repository"
	"github.com/homelend/docflow/internal/workflow"
)

func newTestPipeline(t *testing.T) (*pipeline.Processor, *repository.LocalStore, uuid.UUID) {
	t.Helper()
	store, err := repository.OpenLocal(filepath.Join(t.TempDir(), "queue.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	now := time.Now()
	app := &entity.Application{
		ID:             uuid.New(),
		ApplicantName:  "Jane Roe",
		PurchasePrice:  500_000,
		Stage:          constants.StageAssetVerification,
		Status:         constants.StatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
	require.NoError(t, store.Insert(context.Background(), app))

	engine := workflow.NewEngine(workflow.NewStageTable(workflow.DefaultStages()), store, store.Docs(), nil)
	proc := pipeline.NewProcessor(nil, classify.NewClassifier(nil), extract.NewExtractor(nil), analyze.NewAnalyzer(nil), engine)
	return proc, store, app.ID
}

func TestQueueProcessesAndDrains(t *testing.T) {
	proc, store, appID := newTestPipeline(t)
	q := NewQueue(proc, nil, WithWorkers(2), WithQueueSize(8))

	doc := pipeline.NewDocument(appID, "statement_jan.pdf")
	err := q.Enqueue(context.Background(), Job{
		ApplicationID: appID,
		Document:      doc,
		Text:          "Bank Statement\nStatement Date: 2024-01-31\nBeginning Balance: $45,000.00",
		OCRConfidence: 90,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	stored, err := store.Docs().GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BankStatement, stored.Type)
}

func TestQueueRejectsLowConfidenceScan(t *testing.T) {
	proc, store, appID := newTestPipeline(t)
	q := NewQueue(proc, nil, WithWorkers(1), WithMinOCRConfidence(60))

	doc := pipeline.NewDocument(appID, "blurry.pdf")
	err := q.Enqueue(context.Background(), Job{
		ApplicationID: appID,
		Document:      doc,
		Text:          "Bank Statement",
		OCRConfidence: 40,
	})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	// unknown confidence is not gated
	ok := q.Enqueue(context.Background(), Job{
		ApplicationID: appID,
		Document:      pipeline.NewDocument(appID, "scan.pdf"),
		Text:          "illegible",
		OCRConfidence: 0,
	})
	require.NoError(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	// the rejected document never reached storage
	_, err = store.Docs().GetByID(context.Background(), doc.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestQueueEnqueueAfterShutdownIsDropped(t *testing.T) {
	proc, _, appID := newTestPipeline(t)
	q := NewQueue(proc, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Shutdown(ctx)
	q.Shutdown(ctx) // idempotent

	err := q.Enqueue(context.Background(), Job{
		ApplicationID: appID,
		Document:      pipeline.NewDocument(appID, "late.pdf"),
		Text:          "anything",
	})
	assert.NoError(t, err)
}
