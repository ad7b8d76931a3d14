// Package workflow drives a mortgage application through its ordered
// processing stages. Automation rules are condition/action pairs evaluated in
// declared order against the application's current document set; only actions
// touch storage.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
	"github.com/homelend/docflow/internal/repository"
	"github.com/homelend/docflow/internal/validate"
)

// Result is the outcome of one automation cycle.
type Result struct {
	Success  bool               `json:"success"`
	Actions  []string           `json:"actions"`
	Issues   []string           `json:"issues,omitempty"`
	NewStage *constants.StageID `json:"new_stage,omitempty"`
}

type Engine struct {
	stages *StageTable
	apps   repository.ApplicationRepository
	docs   repository.DocumentRepository
	logger *slog.Logger
	locks  *appLocks
}

func NewEngine(stages *StageTable, apps repository.ApplicationRepository, docs repository.DocumentRepository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		stages: stages,
		apps:   apps,
		docs:   docs,
		logger: logger,
		locks:  newAppLocks(),
	}
}

// ProcessDocument runs one automation cycle for a newly processed document.
// The cycle holds the application's lock so stage mutations are serialized
// per application. Any unexpected failure comes back as a structured result;
// persists that already happened stand.
func (e *Engine) ProcessDocument(ctx context.Context, applicationID uuid.UUID, doc *entity.Document) (res Result) {
	unlock := e.locks.lock(applicationID)
	defer unlock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("workflow.cycle.panic", "application_id", applicationID, "panic", r)
			res = failure(fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	var actions []string

	// 1) persist the document's categorized type and structured data
	if err := e.docs.Update(ctx, doc); err != nil {
		e.logger.Error("workflow.persist.failed", "application_id", applicationID, "document_id", doc.ID, "err", err)
		return failure(fmt.Sprintf("persist document: %v", err))
	}

	// 2) completeness is logged, never blocking
	v := validate.Check(doc.Fields, doc.Type)
	actions = append(actions, fmt.Sprintf("field validation: %d%% complete", v.CompletionPercentage))

	// 3) current stage and in-scope documents
	app, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		e.logger.Error("workflow.load.failed", "application_id", applicationID, "err", err)
		return failure(fmt.Sprintf("load application: %v", err))
	}
	stage, ok := e.stages.Get(app.Stage)
	if !ok {
		return failure(fmt.Sprintf("unknown stage %q", app.Stage))
	}
	docs := app.DocumentsOfType(stage.RequiredTypes...)
	docs = ensureIncluded(docs, doc, stage)

	// 4) rules in declared order
	for _, rule := range stage.Rules {
		if !evalCondition(rule, stage, docs, app) {
			continue
		}
		e.logger.Info("workflow.rule.fired",
			"application_id", applicationID,
			"stage", stage.ID,
			"condition", rule.Condition,
			"action", rule.Action,
		)

		switch rule.Action {
		case constants.ActionAdvanceStage:
			next := e.stages.Next(stage)
			if next == nil {
				actions = append(actions, "completed all stages")
				return Result{Success: true, Actions: actions}
			}
			progress := int(math.Round(100 * float64(next.Order) / float64(e.stages.Len())))
			if err := e.apps.UpdateStage(ctx, applicationID, next.ID, progress); err != nil {
				e.logger.Error("workflow.advance.failed", "application_id", applicationID, "err", err)
				return failure(fmt.Sprintf("advance stage: %v", err))
			}
			actions = append(actions, fmt.Sprintf("advanced to stage %s", next.Name))
			stageID := next.ID
			return Result{Success: true, Actions: actions, NewStage: &stageID}

		case constants.ActionFlagReview:
			if err := e.apps.UpdateStatus(ctx, applicationID, constants.StatusUnderReview); err != nil {
				e.logger.Error("workflow.flag.failed", "application_id", applicationID, "err", err)
				return failure(fmt.Sprintf("flag for review: %v", err))
			}
			actions = append(actions, "flagged for manual review")

		case constants.ActionRequestDocuments:
			actions = append(actions, fmt.Sprintf("requested additional documents for stage %s", stage.Name))

		case constants.ActionNotifyAgent:
			actions = append(actions, fmt.Sprintf("notified agent about stage %s", stage.Name))
		}
	}

	// 5) no advance fired
	return Result{Success: true, Actions: actions}
}

func failure(msg string) Result {
	return Result{
		Success: false,
		Actions: []string{msg},
		Issues:  []string{"workflow automation failed"},
	}
}

// ensureIncluded guards against a stale read that does not yet see the
// freshly persisted document.
func ensureIncluded(docs []*entity.Document, doc *entity.Document, stage *entity.Stage) []*entity.Document {
	matches := false
	for _, t := range stage.RequiredTypes {
		if doc.Type == t {
			matches = true
			break
		}
	}
	if !matches {
		return docs
	}
	for _, d := range docs {
		if d.ID == doc.ID {
			return docs
		}
	}
	return append(docs, doc)
}
