// Package validate checks extracted field maps for completeness against the
// required-field list of each document type.
package validate

import (
	"math"
	"strings"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

// RequiredFields lists what each document type must carry before it counts as
// complete. Generic documents have no requirements and are always complete.
var RequiredFields = map[constants.DocumentType][]string{
	constants.MortgageApplication: {"applicant_name", "loan_amount", "property_address"},
	constants.IncomeProof:         {"income_amount", "employer_name"},
	constants.BankStatement:       {"balance", "statement_date"},
	constants.Identification:      {"full_name", "date_of_birth", "id_number"},
	constants.TaxDocument:         {"tax_year", "total_income"},
	constants.Generic:             {},
}

// Result reports completeness of a field map for its document type.
type Result struct {
	IsComplete           bool     `json:"is_complete"`
	MissingFields        []string `json:"missing_fields"`
	CompletionPercentage int      `json:"completion_percentage"`
}

// Check computes missing = required - present-and-non-empty. Completion is
// round(100 * found/required), defined as 100 when nothing is required.
func Check(fields entity.FieldMap, docType constants.DocumentType) Result {
	required := RequiredFields[docType]
	if len(required) == 0 {
		return Result{IsComplete: true, MissingFields: []string{}, CompletionPercentage: 100}
	}

	var missing []string
	for _, name := range required {
		if !present(fields, name) {
			missing = append(missing, name)
		}
	}
	if missing == nil {
		missing = []string{}
	}

	pct := int(math.Round(100 * float64(len(required)-len(missing)) / float64(len(required))))
	return Result{
		IsComplete:           len(missing) == 0,
		MissingFields:        missing,
		CompletionPercentage: pct,
	}
}

func present(fields entity.FieldMap, name string) bool {
	v, ok := fields[name]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}
