package extract

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelend/docflow/constants"
)

var testClock = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func TestExtractBankStatement(t *testing.T) {
	x := NewExtractor(nil, WithClock(testClock))

	text := `First National Bank Statement
Statement Date: 2024-01-31
Account Number: 4411-0092
Beginning Balance: $45,000.00`

	fields, meta := x.Extract(text, constants.BankStatement)

	require.Contains(t, fields, "balance")
	assert.Equal(t, 45000.00, fields["balance"])
	assert.Equal(t, "2024-01-31", fields["statement_date"])
	assert.Equal(t, "4411-0092", fields["account_number"])

	assert.Equal(t, testClock(), meta.ProcessedAt)
	assert.False(t, meta.Edited)
	assert.GreaterOrEqual(t, meta.Confidence, 0)
	assert.LessOrEqual(t, meta.Confidence, 100)
}

func TestExtractIncomeProof(t *testing.T) {
	x := NewExtractor(nil, WithClock(testClock))

	text := `Pay Stub
Employer: ACME Widgets Inc.
Gross Pay: $4,500.00
Pay Date: 2024-05-15`

	fields, _ := x.Extract(text, constants.IncomeProof)

	assert.Equal(t, 4500.00, fields["income_amount"])
	assert.Equal(t, "ACME Widgets Inc", fields["employer_name"])
	assert.Equal(t, "2024-05-15", fields["pay_date"])
}

func TestExtractFirstPatternWins(t *testing.T) {
	x := NewExtractor(nil, WithClock(testClock))

	// ending balance outranks beginning balance in the rule table
	text := `Beginning Balance: $100.00
Ending Balance: $250.00`

	fields, _ := x.Extract(text, constants.BankStatement)
	assert.Equal(t, 250.00, fields["balance"])
}

func TestExtractMissingFieldsAbsent(t *testing.T) {
	x := NewExtractor(nil, WithClock(testClock))

	fields, _ := x.Extract("nothing useful here", constants.BankStatement)

	assert.NotContains(t, fields, "balance")
	assert.NotContains(t, fields, "statement_date")
	assert.NotContains(t, fields, "account_number")
}

func TestExtractGenericHasNoRules(t *testing.T) {
	x := NewExtractor(nil, WithClock(testClock))

	fields, meta := x.Extract("Beginning Balance: $45,000.00", constants.Generic)

	assert.Empty(t, fields)
	assert.Equal(t, 30, meta.Confidence)
}

func TestExtractValidatorRejectsCapture(t *testing.T) {
	rules := map[constants.DocumentType][]FieldRule{
		constants.BankStatement: {
			{Field: "balance", Patterns: []Pattern{
				// rejects zero amounts, falls through to the next pattern
				{Regex: regexp.MustCompile(`first:\s*([\d.]+)`), Validate: validMoney, Numeric: true},
				{Regex: regexp.MustCompile(`second:\s*([\d.]+)`), Validate: validMoney, Numeric: true},
			}},
		},
	}
	x := NewExtractor(rules, WithClock(testClock))

	fields, _ := x.Extract("first: 0.00 second: 12.50", constants.BankStatement)
	assert.Equal(t, 12.50, fields["balance"])
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"45,000.00", 45000},
		{"$1,250", 1250},
		{"980.25", 980.25},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := parseAmount("no amount")
	assert.Error(t, err)
}
