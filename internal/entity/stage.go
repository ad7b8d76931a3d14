package entity

import (
	"github.com/homelend/docflow/constants"
)

// Stage is one ordered step in an application's processing lifecycle.
// Stage tables are immutable configuration, built once at start-up.
type Stage struct {
	ID            constants.StageID
	Name          string
	Order         int // strictly increasing across the table
	RequiredTypes []constants.DocumentType
	Rules         []AutomationRule
}

// AutomationRule is a condition/action pair scoped to a stage,
// evaluated in declared order.
type AutomationRule struct {
	Condition constants.Condition
	Action    constants.Action
	Params    map[string]float64 // e.g. "threshold" for income_variance_high
}
