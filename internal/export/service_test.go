package export

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/compliance"
	"github.com/homelend/docflow/internal/entity"
	"github.com/homelend/docflow/internal/repository"
)

func seedStore(t *testing.T) (*repository.LocalStore, uuid.UUID) {
	t.Helper()
	store, err := repository.OpenLocal(filepath.Join(t.TempDir(), "export.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	now := time.Now().UTC().Truncate(time.Second)
	app := &entity.Application{
		ID:             uuid.New(),
		ApplicantName:  "Jane Roe",
		ApplicantEmail: "jane@example.com",
		PurchasePrice:  500_000,
		DownPayment:    20_000, // 4%, below the minimum
		LoanAmount:     480_000,
		Stage:          constants.StageUnderwriting,
		Status:         constants.StatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
	require.NoError(t, store.Insert(context.Background(), app))
	return store, app.ID
}

func TestExportComplianceXLSX(t *testing.T) {
	store, appID := seedStore(t)
	clock := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc := NewService(store, compliance.NewEngine(nil, nil, compliance.WithClock(clock)), nil)

	data, err := svc.ExportComplianceXLSX(context.Background(), appID)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Compliance"
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)

	// header + one row per rule + blank + summary
	require.GreaterOrEqual(t, len(rows), len(compliance.DefaultRules())+2)
	assert.Equal(t, "Rule", rows[0][0])
	assert.Equal(t, "Status", rows[0][2])

	ruleIDs := map[string]string{}
	for _, row := range rows[1 : len(compliance.DefaultRules())+1] {
		require.GreaterOrEqual(t, len(row), 3)
		ruleIDs[row[0]] = row[2]
	}
	assert.Equal(t, "failed", ruleIDs["down-payment-minimum"])
	assert.Equal(t, "failed", ruleIDs["loan-to-value-ratio"]) // 96% LTV
	assert.Contains(t, ruleIDs, "large-transaction-reporting")

	last := rows[len(rows)-1]
	assert.Equal(t, "Overall", last[0])
	assert.Equal(t, "non_compliant", last[2])
}

func TestJoinNotesTruncatesOnRuneBoundary(t *testing.T) {
	notes := []string{"Kreditprüfung über 10.000€ gemäß Geldwäschegesetz überschritten"}

	got := joinNotes(notes, 20)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, 20, len([]rune(got)))

	// short input passes through untouched
	assert.Equal(t, "a; b", joinNotes([]string{"a", "b"}, 200))
}

func TestExportUnknownApplication(t *testing.T) {
	store, _ := seedStore(t)
	svc := NewService(store, compliance.NewEngine(nil, nil), nil)

	_, err := svc.ExportComplianceXLSX(context.Background(), uuid.New())
	assert.Error(t, err)
}
