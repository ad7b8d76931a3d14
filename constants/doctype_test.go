package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in     string
		want   DocumentType
		wantOK bool
	}{
		{"bank_statement", BankStatement, true},
		{"Bank_Statement", BankStatement, true},
		{"  statement ", BankStatement, true},
		{"paystub", IncomeProof, true},
		{"payslip", IncomeProof, true},
		{"noa", TaxDocument, true},
		{"passport", Identification, true},
		{"mortgage app", MortgageApplication, true},
		{"generic", Generic, true},
		{"", Generic, false},
		{"utility bill", Generic, false},
	}
	for _, tc := range cases {
		got, ok := Canonicalize(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.wantOK, ok, tc.in)
	}
}

func TestDocumentTypesIsACopy(t *testing.T) {
	types := DocumentTypes()
	assert.Equal(t, []DocumentType{
		MortgageApplication, IncomeProof, BankStatement,
		Identification, TaxDocument, Generic,
	}, types)

	types[0] = Generic
	assert.Equal(t, MortgageApplication, DocumentTypes()[0])
}

func TestAsStringSlice(t *testing.T) {
	assert.Equal(t, []string{
		"mortgage_application", "income_proof", "bank_statement",
		"identification", "tax_document", "generic",
	}, AsStringSlice())
}
