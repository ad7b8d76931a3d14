package workflow

import (
	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

// StageTable is the ordered stage configuration shared by the engine and the
// status read path. Build it once at start-up and pass it by reference.
type StageTable struct {
	stages  []entity.Stage
	byID    map[constants.StageID]*entity.Stage
	byOrder map[int]*entity.Stage
}

func NewStageTable(stages []entity.Stage) *StageTable {
	t := &StageTable{
		stages:  stages,
		byID:    make(map[constants.StageID]*entity.Stage, len(stages)),
		byOrder: make(map[int]*entity.Stage, len(stages)),
	}
	for i := range stages {
		s := &t.stages[i]
		t.byID[s.ID] = s
		t.byOrder[s.Order] = s
	}
	return t
}

func (t *StageTable) Get(id constants.StageID) (*entity.Stage, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// Next returns the stage following s, or nil when s is terminal.
func (t *StageTable) Next(s *entity.Stage) *entity.Stage {
	return t.byOrder[s.Order+1]
}

func (t *StageTable) Len() int { return len(t.stages) }

// DefaultStages is the built-in mortgage processing lifecycle.
func DefaultStages() []entity.Stage {
	return []entity.Stage{
		{
			ID:            constants.StageDocumentCollection,
			Name:          "Document Collection",
			Order:         1,
			RequiredTypes: []constants.DocumentType{constants.MortgageApplication},
			Rules: []entity.AutomationRule{
				{Condition: constants.CondAllRequiredDocumentsUploaded, Action: constants.ActionAdvanceStage},
			},
		},
		{
			ID:            constants.StageIncomeVerification,
			Name:          "Income Verification",
			Order:         2,
			RequiredTypes: []constants.DocumentType{constants.IncomeProof, constants.TaxDocument},
			Rules: []entity.AutomationRule{
				{Condition: constants.CondIncomeVarianceHigh, Action: constants.ActionFlagReview, Params: map[string]float64{"threshold": 25}},
				{Condition: constants.CondAllRequiredDocumentsUploaded, Action: constants.ActionAdvanceStage},
			},
		},
		{
			ID:            constants.StageAssetVerification,
			Name:          "Asset Verification",
			Order:         3,
			RequiredTypes: []constants.DocumentType{constants.BankStatement},
			Rules: []entity.AutomationRule{
				{Condition: constants.CondAssetsInsufficient, Action: constants.ActionFlagReview},
				{Condition: constants.CondAssetsInsufficient, Action: constants.ActionRequestDocuments},
				{Condition: constants.CondAllRequiredDocumentsUploaded, Action: constants.ActionAdvanceStage},
			},
		},
		{
			ID:            constants.StageIdentityVerification,
			Name:          "Identity Verification",
			Order:         4,
			RequiredTypes: []constants.DocumentType{constants.Identification},
			Rules: []entity.AutomationRule{
				{Condition: constants.CondDocumentsVerified, Action: constants.ActionAdvanceStage},
				{Condition: constants.CondAllRequiredDocumentsUploaded, Action: constants.ActionNotifyAgent},
			},
		},
		{
			ID:    constants.StageUnderwriting,
			Name:  "Underwriting",
			Order: 5,
			RequiredTypes: []constants.DocumentType{
				constants.MortgageApplication,
				constants.IncomeProof,
				constants.BankStatement,
				constants.Identification,
			},
			Rules: []entity.AutomationRule{
				{Condition: constants.CondAllRequiredDocumentsUploaded, Action: constants.ActionNotifyAgent},
				{Condition: constants.CondDocumentsVerified, Action: constants.ActionAdvanceStage},
			},
		},
		{
			ID:            constants.StageFinalApproval,
			Name:          "Final Approval",
			Order:         6,
			RequiredTypes: nil,
			Rules:         nil,
		},
	}
}
