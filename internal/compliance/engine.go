// Package compliance evaluates an independent regulatory rule table against
// a full application snapshot. It is stateless and safe for concurrent,
// repeated runs; it is never triggered by the per-document workflow cycle.
package compliance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

// RunResult aggregates one full rule-table evaluation.
type RunResult struct {
	Overall         constants.OverallCompliance `json:"overall"`
	Checks          []entity.ComplianceCheck    `json:"checks"`
	Recommendations []string                    `json:"recommendations"`
	Report          string                      `json:"report"`
}

type Engine struct {
	rules  []Rule
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(rules []Rule, logger *slog.Logger, opts ...Option) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{rules: rules, logger: logger, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run evaluates every rule against the snapshot. A rule with any issue is
// failed; with only warnings, warning; otherwise passed. One panicking rule
// degrades to a warning check instead of aborting the run.
func (e *Engine) Run(app *entity.Application) RunResult {
	checkedAt := e.now()
	checks := make([]entity.ComplianceCheck, 0, len(e.rules))
	var recommendations []string

	anyFailed := false
	anyWarned := false

	for _, rule := range e.rules {
		verdict := e.safeValidate(rule, app)

		status := constants.CheckPassed
		var notes []string
		switch {
		case len(verdict.Issues) > 0:
			status = constants.CheckFailed
			anyFailed = true
			notes = append(notes, verdict.Issues...)
			notes = append(notes, verdict.Warnings...)
		case len(verdict.Warnings) > 0:
			status = constants.CheckWarning
			anyWarned = true
			notes = append(notes, verdict.Warnings...)
		}
		recommendations = append(recommendations, verdict.Recommendations...)

		checks = append(checks, entity.ComplianceCheck{
			RuleID:      rule.ID,
			Body:        rule.Body,
			Status:      status,
			Description: rule.Description,
			CheckedAt:   checkedAt,
			Notes:       notes,
		})
	}

	overall := constants.Compliant
	if anyWarned {
		overall = constants.NeedsReview
	}
	if anyFailed {
		overall = constants.NonCompliant
	}

	return RunResult{
		Overall:         overall,
		Checks:          checks,
		Recommendations: recommendations,
		Report:          renderReport(app, overall, checks, checkedAt),
	}
}

// safeValidate converts a panicking validator into a warning verdict so one
// bad rule cannot abort the aggregate run.
func (e *Engine) safeValidate(rule Rule, app *entity.Application) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("compliance.rule.panic", "rule_id", rule.ID, "panic", r)
			verdict = Verdict{
				Warnings: []string{fmt.Sprintf("rule %s could not be evaluated: %v", rule.ID, r)},
			}
		}
	}()
	return rule.Validate(app)
}
