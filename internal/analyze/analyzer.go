// Package analyze inspects extracted fields and extraction metadata and
// raises severity-tagged issues (fraud and inconsistency signals). Rules fire
// independently; a bad input surfaces as an issue, never as an error.
package analyze

import (
	"encoding/json"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

const lowConfidenceThreshold = 60

// FieldCheck raises an issue when the named field is absent. Criticality is
// per field: a missing income amount is an error, a missing pay date only a
// warning.
type FieldCheck struct {
	Field    string
	Severity constants.Severity
	Message  string
}

// DefaultChecks is the built-in type->presence-check table.
func DefaultChecks() map[constants.DocumentType][]FieldCheck {
	return map[constants.DocumentType][]FieldCheck{
		constants.MortgageApplication: {
			{Field: "applicant_name", Severity: constants.SeverityError, Message: "missing applicant name"},
			{Field: "loan_amount", Severity: constants.SeverityError, Message: "missing loan amount"},
			{Field: "property_address", Severity: constants.SeverityWarning, Message: "missing property address"},
		},
		constants.IncomeProof: {
			{Field: "income_amount", Severity: constants.SeverityError, Message: "missing income amount"},
			{Field: "employer_name", Severity: constants.SeverityWarning, Message: "missing employer name"},
			{Field: "pay_date", Severity: constants.SeverityWarning, Message: "missing pay date"},
		},
		constants.BankStatement: {
			{Field: "balance", Severity: constants.SeverityError, Message: "missing account balance"},
			{Field: "statement_date", Severity: constants.SeverityWarning, Message: "missing statement date"},
		},
		constants.Identification: {
			{Field: "full_name", Severity: constants.SeverityError, Message: "missing name on identification"},
			{Field: "date_of_birth", Severity: constants.SeverityError, Message: "missing date of birth"},
			{Field: "expiry_date", Severity: constants.SeverityWarning, Message: "missing expiry date"},
		},
		constants.TaxDocument: {
			{Field: "tax_year", Severity: constants.SeverityError, Message: "missing tax year"},
			{Field: "total_income", Severity: constants.SeverityError, Message: "missing total income"},
		},
	}
}

type Analyzer struct {
	checks map[constants.DocumentType][]FieldCheck
}

func NewAnalyzer(checks map[constants.DocumentType][]FieldCheck) *Analyzer {
	if checks == nil {
		checks = DefaultChecks()
	}
	return &Analyzer{checks: checks}
}

// Analyze runs all applicable rules over the field map and raw metadata.
// Issues come back in rule declaration order: metadata first, then
// confidence, then per-type presence checks.
func (a *Analyzer) Analyze(fields entity.FieldMap, rawMeta json.RawMessage, docType constants.DocumentType) []entity.Issue {
	issues := []entity.Issue{}

	meta, err := ParseMetadata(rawMeta)
	if err != nil {
		issues = append(issues, entity.Issue{
			Severity: constants.SeverityError,
			Message:  "cannot parse document metadata",
		})
	} else if meta.Confidence < lowConfidenceThreshold {
		issues = append(issues, entity.Issue{
			Severity: constants.SeverityWarning,
			Message:  "low confidence, manual review recommended",
		})
	}

	for _, check := range a.checks[docType] {
		if _, ok := fields[check.Field]; ok {
			continue
		}
		issues = append(issues, entity.Issue{Severity: check.Severity, Message: check.Message})
	}

	return issues
}
