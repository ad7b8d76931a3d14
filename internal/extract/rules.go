package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/homelend/docflow/constants"
)

// Pattern is one way to pull a field out of text. The captured group (first
// submatch, or the whole match when there is none) is the candidate value;
// Validate, when set, can reject it so the next pattern gets a chance.
type Pattern struct {
	Regex    *regexp.Regexp
	Validate func(string) bool
	Numeric  bool // store the value as float64 rather than string
}

// FieldRule extracts one named field. Patterns are tried in priority order;
// the first accepted capture wins.
type FieldRule struct {
	Field    string
	Patterns []Pattern
}

var (
	reMoney = regexp.MustCompile(`\$?\s*([\d,]+(?:\.\d{2})?)`)
	reDate  = regexp.MustCompile(`((?:19|20)\d{2}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/(?:19|20)\d{2}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+(?:19|20)\d{2})`)
)

func validMoney(s string) bool {
	v, err := parseAmount(s)
	return err == nil && v > 0
}

// parseAmount strips currency formatting and parses the remainder.
func parseAmount(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	return strconv.ParseFloat(clean, 64)
}

// DefaultRules is the built-in type->extraction-rule table.
func DefaultRules() map[constants.DocumentType][]FieldRule {
	return map[constants.DocumentType][]FieldRule{
		constants.MortgageApplication: {
			{Field: "applicant_name", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)(?:borrower|applicant)(?:\s+name)?\s*[:.]\s*([A-Za-z][A-Za-z .'-]+)`)},
			}},
			{Field: "loan_amount", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)loan\s+amount\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
				{Regex: regexp.MustCompile(`(?i)amount\s+requested\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
			}},
			{Field: "property_address", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)property\s+address\s*[:.]\s*(.+)`)},
			}},
		},
		constants.IncomeProof: {
			{Field: "income_amount", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)gross\s+(?:pay|income|earnings)\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
				{Regex: regexp.MustCompile(`(?i)(?:annual\s+)?salary\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
				{Regex: regexp.MustCompile(`(?i)year\s+to\s+date\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
			}},
			{Field: "employer_name", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)employer\s*[:.]\s*([A-Za-z0-9][A-Za-z0-9 .,&'-]+)`)},
			}},
			{Field: "pay_date", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)pay\s+date\s*[:.]?\s*` + reDate.String())},
			}},
		},
		constants.BankStatement: {
			{Field: "balance", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)(?:ending|closing)\s+balance\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
				{Regex: regexp.MustCompile(`(?i)(?:beginning|opening)\s+balance\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
				{Regex: regexp.MustCompile(`(?i)balance\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
			}},
			{Field: "statement_date", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)statement\s+(?:date|period)\s*[:.]?\s*` + reDate.String())},
				{Regex: reDate},
			}},
			{Field: "account_number", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)account\s*(?:no|number|#)\s*[:.]?\s*([\dXx*-]{4,})`)},
			}},
		},
		constants.Identification: {
			{Field: "full_name", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)name\s*[:.]\s*([A-Za-z][A-Za-z .'-]+)`)},
			}},
			{Field: "date_of_birth", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)(?:date\s+of\s+birth|dob)\s*[:.]?\s*` + reDate.String())},
			}},
			{Field: "id_number", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)(?:licen[cs]e|passport|id)\s*(?:no|number|#)\s*[:.]?\s*([A-Z0-9-]{5,})`)},
			}},
			{Field: "expiry_date", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)expir(?:y|es|ation)(?:\s+date)?\s*[:.]?\s*` + reDate.String())},
			}},
		},
		constants.TaxDocument: {
			{Field: "tax_year", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)tax\s+year\s*[:.]?\s*((?:19|20)\d{2})`)},
			}},
			{Field: "total_income", Patterns: []Pattern{
				{Regex: regexp.MustCompile(`(?i)(?:total|taxable)\s+income\s*[:.]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`), Validate: validMoney, Numeric: true},
			}},
		},
	}
}
