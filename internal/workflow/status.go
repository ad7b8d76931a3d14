package workflow

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the recomputed-on-demand view of where an application stands.
type Status struct {
	Stage               string    `json:"stage"`
	Progress            int       `json:"progress"`
	Blockers            []string  `json:"blockers"`
	NextActions         []string  `json:"next_actions"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

// GetWorkflowStatus recomputes stage, blockers and next actions from
// persisted state. It works over plain reads; no change notification is
// required.
func (e *Engine) GetWorkflowStatus(ctx context.Context, applicationID uuid.UUID, avgProcessingDays float64) (*Status, error) {
	app, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	stage, ok := e.stages.Get(app.Stage)
	if !ok {
		return nil, fmt.Errorf("unknown stage %q", app.Stage)
	}

	blockers := []string{}
	nextActions := []string{}
	for _, required := range stage.RequiredTypes {
		matching := app.DocumentsOfType(required)
		if len(matching) == 0 {
			blockers = append(blockers, fmt.Sprintf("missing %s document", required))
			nextActions = append(nextActions, fmt.Sprintf("upload %s document", required))
			continue
		}
		verified := false
		for _, d := range matching {
			if d.Verified {
				verified = true
				break
			}
		}
		if !verified {
			blockers = append(blockers, fmt.Sprintf("%s document not verified", required))
			nextActions = append(nextActions, fmt.Sprintf("verify %s document", required))
		}
	}
	if len(nextActions) == 0 {
		nextActions = append(nextActions, "processing normally")
	}

	remainingDays := math.Round(avgProcessingDays * (1 - float64(app.Progress)/100))
	eta := time.Now().AddDate(0, 0, int(remainingDays))

	return &Status{
		Stage:               stage.Name,
		Progress:            app.Progress,
		Blockers:            blockers,
		NextActions:         nextActions,
		EstimatedCompletion: eta,
	}, nil
}
