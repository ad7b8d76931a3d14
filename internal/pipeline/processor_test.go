package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/analyze"
	"github.com/homelend/docflow/internal/classify"
	"github.com/homelend/docflow/internal/entity"
	"github.com/homelend/docflow/internal/extract"
	"github.com/homelend/docflow/internal/repository"
	"github.com/homelend/docflow/internal/workflow"
)

const statementText = `First National Bank Statement
Statement Date: 2024-01-31
Account Number: 4411-0092
Beginning Balance: $45,000.00`

func newTestStore(t *testing.T) *repository.LocalStore {
	t.Helper()
	store, err := repository.OpenLocal(filepath.Join(t.TempDir(), "docflow.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedApplication(t *testing.T, store *repository.LocalStore, stage constants.StageID) *entity.Application {
	t.Helper()
	now := time.Now()
	app := &entity.Application{
		ID:             uuid.New(),
		ApplicantName:  "Jane Roe",
		ApplicantEmail: "jane@example.com",
		PurchasePrice:  500_000,
		DownPayment:    60_000,
		LoanAmount:     440_000,
		Stage:          stage,
		Status:         constants.StatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
	require.NoError(t, store.Insert(context.Background(), app))
	return app
}

func newTestProcessor(store *repository.LocalStore) *Processor {
	engine := workflow.NewEngine(workflow.NewStageTable(workflow.DefaultStages()), store, store.Docs(), nil)
	return NewProcessor(nil, classify.NewClassifier(nil), extract.NewExtractor(nil), analyze.NewAnalyzer(nil), engine)
}

func TestProcessTextAdvancesAssetVerification(t *testing.T) {
	store := newTestStore(t)
	app := seedApplication(t, store, constants.StageAssetVerification)
	p := newTestProcessor(store)

	doc := NewDocument(app.ID, "statement_jan.pdf")
	res := p.ProcessText(context.Background(), app.ID, doc, statementText, 95)

	require.True(t, res.Success)
	require.NotNil(t, res.NewStage)
	assert.Equal(t, constants.StageIdentityVerification, *res.NewStage)

	// document came out classified, extracted and persisted
	assert.Equal(t, constants.BankStatement, doc.Type)
	assert.Equal(t, 45000.0, doc.Fields["balance"])
	assert.Empty(t, doc.Issues)
	require.NotNil(t, doc.ProcessedAt)

	stored, err := store.Docs().GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BankStatement, stored.Type)
	assert.Equal(t, 45000.0, stored.Fields["balance"])
	assert.Equal(t, "2024-01-31", stored.Fields["statement_date"])

	reloaded, err := store.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StageIdentityVerification, reloaded.Stage)
	assert.Equal(t, 67, reloaded.Progress)
}

func TestProcessTextLowOCRConfidenceFlagsIssue(t *testing.T) {
	store := newTestStore(t)
	app := seedApplication(t, store, constants.StageAssetVerification)
	p := newTestProcessor(store)

	doc := NewDocument(app.ID, "statement_jan.pdf")
	res := p.ProcessText(context.Background(), app.ID, doc, statementText, 50)

	// a barely readable scan caps extraction confidence
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, 50, doc.Metadata.Confidence)

	require.NotEmpty(t, doc.Issues)
	assert.Equal(t, constants.SeverityWarning, doc.Issues[0].Severity)
	assert.Equal(t, "low confidence, manual review recommended", doc.Issues[0].Message)

	// issues are advisory; the stage still advances on sufficient assets
	require.True(t, res.Success)
	require.NotNil(t, res.NewStage)
	assert.Equal(t, constants.StageIdentityVerification, *res.NewStage)

	stored, err := store.Docs().GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.Issues)
	assert.Equal(t, doc.Issues[0].Message, stored.Issues[0].Message)
}

func TestProcessTextUnclassifiableDegradesToGeneric(t *testing.T) {
	store := newTestStore(t)
	app := seedApplication(t, store, constants.StageDocumentCollection)
	p := newTestProcessor(store)

	doc := NewDocument(app.ID, "scan001.pdf")
	res := p.ProcessText(context.Background(), app.ID, doc, "completely illegible smudge", 95)

	require.True(t, res.Success)
	assert.Nil(t, res.NewStage)
	assert.Equal(t, constants.Generic, doc.Type)

	reloaded, err := store.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StageDocumentCollection, reloaded.Stage)
}

type stubRecognizer struct {
	text       string
	confidence int
	err        error
}

func (s stubRecognizer) Recognize(_ context.Context, _ []byte) (extract.RecognitionResult, error) {
	if s.err != nil {
		return extract.RecognitionResult{}, s.err
	}
	return extract.RecognitionResult{Text: s.text, Confidence: s.confidence, Pages: 1}, nil
}

func TestProcessScan(t *testing.T) {
	store := newTestStore(t)
	app := seedApplication(t, store, constants.StageAssetVerification)
	p := newTestProcessor(store)

	doc := NewDocument(app.ID, "statement_jan.png")
	res, err := p.ProcessScan(context.Background(), app.ID, doc,
		stubRecognizer{text: statementText, confidence: 88}, []byte("png bytes"))

	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, constants.BankStatement, doc.Type)
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, 88, doc.Metadata.Confidence)
}

func TestProcessScanRecognitionFailure(t *testing.T) {
	store := newTestStore(t)
	app := seedApplication(t, store, constants.StageAssetVerification)
	p := newTestProcessor(store)

	doc := NewDocument(app.ID, "statement_jan.png")
	_, err := p.ProcessScan(context.Background(), app.ID, doc,
		stubRecognizer{err: errors.New("engine offline")}, nil)

	require.Error(t, err)
	// nothing persisted: the cycle never started
	_, getErr := store.Docs().GetByID(context.Background(), doc.ID)
	assert.Error(t, getErr)
}

func TestProcessTextMortgageApplicationStartsTheFlow(t *testing.T) {
	store := newTestStore(t)
	app := seedApplication(t, store, constants.StageDocumentCollection)
	p := newTestProcessor(store)

	text := `Uniform Residential Loan Application
Mortgage Application
Borrower Name: Jane Roe
Loan Amount: $440,000
Property Address: 1 Main Street, Springfield`

	doc := NewDocument(app.ID, "application.pdf")
	res := p.ProcessText(context.Background(), app.ID, doc, text, 95)

	require.True(t, res.Success)
	assert.Equal(t, constants.MortgageApplication, doc.Type)
	require.NotNil(t, res.NewStage)
	assert.Equal(t, constants.StageIncomeVerification, *res.NewStage)
}
