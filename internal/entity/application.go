package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/homelend/docflow/constants"
)

// Application represents a mortgage application for data transfer between layers.
type Application struct {
	ID             uuid.UUID                   `json:"id"`
	ApplicantName  string                      `json:"applicant_name"`
	ApplicantEmail string                      `json:"applicant_email"`
	ApplicantPhone string                      `json:"applicant_phone,omitempty"`
	PurchasePrice  float64                     `json:"purchase_price"`
	DownPayment    float64                     `json:"down_payment"`
	LoanAmount     float64                     `json:"loan_amount"`
	Stage          constants.StageID           `json:"stage"`
	Status         constants.ApplicationStatus `json:"status"`
	Progress       int                         `json:"progress"` // 0-100, derived
	Documents      []*Document                 `json:"documents"`
	Checks         []ComplianceCheck           `json:"compliance_checks,omitempty"`
	Blockers       []string                    `json:"blockers,omitempty"`
	NextActions    []string                    `json:"next_actions,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	LastActivityAt time.Time                   `json:"last_activity_at"`
}

// DocumentsOfType returns the application's documents matching any of the given types.
func (a *Application) DocumentsOfType(types ...constants.DocumentType) []*Document {
	var out []*Document
	for _, d := range a.Documents {
		for _, t := range types {
			if d.Type == t {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
