package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

func doc(t constants.DocumentType, fields entity.FieldMap, verified bool) *entity.Document {
	return &entity.Document{Type: t, Fields: fields, Verified: verified}
}

func TestAllRequiredUploaded(t *testing.T) {
	stage := &entity.Stage{
		RequiredTypes: []constants.DocumentType{constants.IncomeProof, constants.TaxDocument},
	}

	income := doc(constants.IncomeProof, nil, false)
	tax := doc(constants.TaxDocument, nil, false)

	assert.False(t, allRequiredUploaded(stage, nil))
	assert.False(t, allRequiredUploaded(stage, []*entity.Document{income}))
	assert.True(t, allRequiredUploaded(stage, []*entity.Document{income, tax}))

	// no required types: vacuously satisfied
	assert.True(t, allRequiredUploaded(&entity.Stage{}, nil))
}

func TestIncomeVarianceHigh(t *testing.T) {
	income := func(amount float64) *entity.Document {
		return doc(constants.IncomeProof, entity.FieldMap{"income_amount": amount}, false)
	}

	// (6000-4000)/4000*100 = 50 > 25
	assert.True(t, incomeVarianceHigh([]*entity.Document{income(4000), income(6000)}, 25))
	// exactly at the threshold does not fire
	assert.False(t, incomeVarianceHigh([]*entity.Document{income(4000), income(5000)}, 25))
	// a single value can have no variance
	assert.False(t, incomeVarianceHigh([]*entity.Document{income(4000)}, 25))
	// zero minimum would divide by zero; treated as indeterminate
	assert.False(t, incomeVarianceHigh([]*entity.Document{income(0), income(6000)}, 25))
	// non-income documents are ignored
	stray := doc(constants.BankStatement, entity.FieldMap{"income_amount": 99999.0}, false)
	assert.False(t, incomeVarianceHigh([]*entity.Document{income(4000), stray}, 25))
}

func TestAssetsInsufficient(t *testing.T) {
	bank := func(balance float64) *entity.Document {
		return doc(constants.BankStatement, entity.FieldMap{"balance": balance}, false)
	}

	// 5% of 500,000 is 25,000
	assert.True(t, assetsInsufficient([]*entity.Document{bank(24_999)}, 500_000))
	assert.False(t, assetsInsufficient([]*entity.Document{bank(25_000)}, 500_000))

	// balances sum across statements
	assert.False(t, assetsInsufficient([]*entity.Document{bank(10_000), bank(15_000)}, 500_000))

	// no statements at all means no assets on record
	assert.True(t, assetsInsufficient(nil, 500_000))
}

func TestDocumentsVerified(t *testing.T) {
	assert.False(t, documentsVerified(nil))
	assert.False(t, documentsVerified([]*entity.Document{doc(constants.Identification, nil, false)}))
	assert.True(t, documentsVerified([]*entity.Document{
		doc(constants.Identification, nil, false),
		doc(constants.Identification, nil, true),
	}))
}

func TestNumericFieldCoercions(t *testing.T) {
	d := doc(constants.BankStatement, entity.FieldMap{
		"float":  45000.5,
		"int":    45000,
		"number": json.Number("45000.5"),
		"string": "45000.5",
	}, false)

	v, ok := numericField(d, "float")
	assert.True(t, ok)
	assert.Equal(t, 45000.5, v)

	v, ok = numericField(d, "int")
	assert.True(t, ok)
	assert.Equal(t, 45000.0, v)

	v, ok = numericField(d, "number")
	assert.True(t, ok)
	assert.Equal(t, 45000.5, v)

	_, ok = numericField(d, "string")
	assert.False(t, ok)

	_, ok = numericField(d, "absent")
	assert.False(t, ok)
}

func TestUnknownConditionNeverFires(t *testing.T) {
	rule := entity.AutomationRule{Condition: "no_such_condition", Action: constants.ActionAdvanceStage}
	assert.False(t, evalCondition(rule, &entity.Stage{}, nil, &entity.Application{}))
}
