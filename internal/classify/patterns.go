package classify

import (
	"regexp"

	"github.com/homelend/docflow/constants"
)

// PatternSet scores one document type. Keyword and regex tables are data so
// new types stay additive.
type PatternSet struct {
	Keywords []string
	Regexes  []*regexp.Regexp
	Weight   float64
}

// DefaultPatterns is the built-in type->pattern table.
func DefaultPatterns() map[constants.DocumentType]PatternSet {
	return map[constants.DocumentType]PatternSet{
		constants.MortgageApplication: {
			Keywords: []string{"mortgage application", "loan application", "borrower", "property address", "purchase price"},
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)application\s+(no|number|id)[.:]?\s*\S+`),
				regexp.MustCompile(`(?i)loan\s+amount`),
				regexp.MustCompile(`(?i)amortization`),
			},
			Weight: 0.95,
		},
		constants.IncomeProof: {
			// keep the keyword list tight: a partial match on a sparse pay
			// stub must still clear the review threshold
			Keywords: []string{"pay stub", "paystub", "gross pay", "year to date"},
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)gross\s+(pay|income|earnings)`),
				regexp.MustCompile(`(?i)ytd|year[-\s]to[-\s]date`),
				regexp.MustCompile(`(?i)(annual\s+)?salary`),
			},
			Weight: 0.95,
		},
		constants.BankStatement: {
			Keywords: []string{"bank statement", "beginning balance", "ending balance"},
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(beginning|opening|ending|closing)\s+balance`),
				regexp.MustCompile(`(?i)account\s*(no|number|#)`),
			},
			Weight: 0.95,
		},
		constants.Identification: {
			Keywords: []string{"driver's license", "drivers license", "passport", "date of birth", "identification", "photo id"},
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)date\s+of\s+birth|dob`),
				regexp.MustCompile(`(?i)(licen[cs]e|passport)\s*(no|number|#)`),
				regexp.MustCompile(`(?i)expir(y|es|ation)`),
			},
			Weight: 0.85,
		},
		constants.TaxDocument: {
			Keywords: []string{"notice of assessment", "tax return", "t4", "taxable income", "total income", "tax year"},
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)tax\s+year\s*[:.]?\s*(19|20)\d{2}`),
				regexp.MustCompile(`(?i)(taxable|total)\s+income`),
				regexp.MustCompile(`(?i)notice\s+of\s+assessment`),
			},
			Weight: 0.85,
		},
	}
}
