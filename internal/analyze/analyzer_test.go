package analyze

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

func goodMeta(t *testing.T, confidence int) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(entity.ExtractionMetadata{
		ProcessedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Confidence:  confidence,
		Edited:      false,
	})
	require.NoError(t, err)
	return raw
}

func TestAnalyzeCleanDocument(t *testing.T) {
	a := NewAnalyzer(nil)
	fields := entity.FieldMap{
		"balance":        45000.0,
		"statement_date": "2024-01-31",
	}

	issues := a.Analyze(fields, goodMeta(t, 90), constants.BankStatement)
	assert.Empty(t, issues)
}

func TestAnalyzeUnparsableMetadata(t *testing.T) {
	a := NewAnalyzer(nil)

	for _, raw := range []json.RawMessage{nil, []byte("not json"), []byte(`{"confidence":"high"}`)} {
		issues := a.Analyze(entity.FieldMap{"balance": 1.0, "statement_date": "x"}, raw, constants.BankStatement)
		require.NotEmpty(t, issues)
		assert.Equal(t, constants.SeverityError, issues[0].Severity)
		assert.Equal(t, "cannot parse document metadata", issues[0].Message)
	}
}

func TestAnalyzeLowConfidence(t *testing.T) {
	a := NewAnalyzer(nil)
	fields := entity.FieldMap{"balance": 45000.0, "statement_date": "2024-01-31"}

	issues := a.Analyze(fields, goodMeta(t, 59), constants.BankStatement)

	require.Len(t, issues, 1)
	assert.Equal(t, constants.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "low confidence, manual review recommended", issues[0].Message)

	// boundary: 60 is not low
	assert.Empty(t, a.Analyze(fields, goodMeta(t, 60), constants.BankStatement))
}

func TestAnalyzeMissingIncomeAmountIsError(t *testing.T) {
	a := NewAnalyzer(nil)

	issues := a.Analyze(entity.FieldMap{"employer_name": "ACME", "pay_date": "2024-05-15"}, goodMeta(t, 90), constants.IncomeProof)

	require.Len(t, issues, 1)
	assert.Equal(t, constants.SeverityError, issues[0].Severity)
	assert.Equal(t, "missing income amount", issues[0].Message)
}

func TestAnalyzeMissingStatementDateIsWarning(t *testing.T) {
	a := NewAnalyzer(nil)

	issues := a.Analyze(entity.FieldMap{"balance": 45000.0}, goodMeta(t, 90), constants.BankStatement)

	require.Len(t, issues, 1)
	assert.Equal(t, constants.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "missing statement date", issues[0].Message)
}

func TestAnalyzeRulesFireIndependentlyInOrder(t *testing.T) {
	a := NewAnalyzer(nil)

	// low confidence AND two missing fields: all applicable rules fire
	issues := a.Analyze(entity.FieldMap{}, goodMeta(t, 40), constants.BankStatement)

	require.Len(t, issues, 3)
	assert.Equal(t, "low confidence, manual review recommended", issues[0].Message)
	assert.Equal(t, "missing account balance", issues[1].Message)
	assert.Equal(t, "missing statement date", issues[2].Message)
}

func TestAnalyzeGenericHasNoFieldChecks(t *testing.T) {
	a := NewAnalyzer(nil)
	assert.Empty(t, a.Analyze(entity.FieldMap{}, goodMeta(t, 90), constants.Generic))
}
