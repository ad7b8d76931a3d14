package entity

import (
	"time"

	"github.com/homelend/docflow/constants"
)

// ComplianceCheck is the recorded outcome of one compliance rule run.
type ComplianceCheck struct {
	RuleID      string                   `json:"rule_id"`
	Body        constants.RegulatoryBody `json:"regulatory_body"`
	Status      constants.CheckStatus    `json:"status"`
	Description string                   `json:"description"`
	CheckedAt   time.Time                `json:"checked_at"`
	Notes       []string                 `json:"notes,omitempty"`
}
