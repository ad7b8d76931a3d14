package constants

import (
	"strings"
)

type DocumentType string

const (
	MortgageApplication DocumentType = "mortgage_application"
	IncomeProof         DocumentType = "income_proof"
	BankStatement       DocumentType = "bank_statement"
	Identification      DocumentType = "identification"
	TaxDocument         DocumentType = "tax_document"
	Generic             DocumentType = "generic"
)

var allDocumentTypes = []DocumentType{
	MortgageApplication,
	IncomeProof,
	BankStatement,
	Identification,
	TaxDocument,
	Generic,
}

func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(allDocumentTypes))
	copy(out, allDocumentTypes)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}

// Canonicalize maps a free-form type string to a DocumentType.
// Returns Generic, false when the input is unrecognized.
func Canonicalize(input string) (DocumentType, bool) {
	if input == "" {
		return Generic, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]DocumentType{
		"application":     MortgageApplication,
		"mortgage app":    MortgageApplication,
		"pay stub":        IncomeProof,
		"paystub":         IncomeProof,
		"payslip":         IncomeProof,
		"employment":      IncomeProof,
		"statement":       BankStatement,
		"bank":            BankStatement,
		"id":              Identification,
		"passport":        Identification,
		"driver license":  Identification,
		"drivers license": Identification,
		"t4":              TaxDocument,
		"noa":             TaxDocument,
		"tax return":      TaxDocument,
	}

	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}

	// check if it matches any type string
	for _, dt := range allDocumentTypes {
		if normalized == strings.ToLower(string(dt)) {
			return dt, true
		}
	}

	return Generic, false
}
