package workflow

import (
	"encoding/json"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

// assetFloorRatio: bank balances must cover at least this share of the
// purchase price.
const assetFloorRatio = 0.05

// evalCondition decides whether a rule applies. Predicates are pure: they
// read the stage, the in-scope documents and the application snapshot, and
// never touch storage.
func evalCondition(rule entity.AutomationRule, stage *entity.Stage, docs []*entity.Document, app *entity.Application) bool {
	switch rule.Condition {
	case constants.CondAllRequiredDocumentsUploaded:
		return allRequiredUploaded(stage, docs)
	case constants.CondIncomeVarianceHigh:
		threshold := rule.Params["threshold"]
		return incomeVarianceHigh(docs, threshold)
	case constants.CondAssetsInsufficient:
		return assetsInsufficient(docs, app.PurchasePrice)
	case constants.CondDocumentsVerified:
		return documentsVerified(docs)
	default:
		return false
	}
}

// allRequiredUploaded holds iff every required type for the stage has at
// least one matching document.
func allRequiredUploaded(stage *entity.Stage, docs []*entity.Document) bool {
	for _, required := range stage.RequiredTypes {
		found := false
		for _, d := range docs {
			if d.Type == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// incomeVarianceHigh holds iff at least two numeric income values exist and
// (max-min)/min*100 exceeds the threshold.
func incomeVarianceHigh(docs []*entity.Document, threshold float64) bool {
	var incomes []float64
	for _, d := range docs {
		if d.Type != constants.IncomeProof {
			continue
		}
		if v, ok := numericField(d, "income_amount"); ok {
			incomes = append(incomes, v)
		}
	}
	if len(incomes) < 2 {
		return false
	}
	minV, maxV := incomes[0], incomes[0]
	for _, v := range incomes[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV <= 0 {
		return false
	}
	return (maxV-minV)/minV*100 > threshold
}

// assetsInsufficient holds iff the summed bank-statement balances fall below
// 5% of the purchase price.
func assetsInsufficient(docs []*entity.Document, purchasePrice float64) bool {
	var total float64
	for _, d := range docs {
		if d.Type != constants.BankStatement {
			continue
		}
		if v, ok := numericField(d, "balance"); ok {
			total += v
		}
	}
	return total < assetFloorRatio*purchasePrice
}

// documentsVerified holds iff at least one in-scope document is verified.
func documentsVerified(docs []*entity.Document) bool {
	for _, d := range docs {
		if d.Verified {
			return true
		}
	}
	return false
}

func numericField(d *entity.Document, name string) (float64, bool) {
	v, ok := d.Fields[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
