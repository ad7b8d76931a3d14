package constants

// Severity tags findings raised against a single document.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Condition is the closed vocabulary of automation-rule predicates.
type Condition string

const (
	CondAllRequiredDocumentsUploaded Condition = "all_required_documents_uploaded"
	CondIncomeVarianceHigh           Condition = "income_variance_high"
	CondAssetsInsufficient           Condition = "assets_insufficient"
	CondDocumentsVerified            Condition = "documents_verified"
)

// Action is what an automation rule does when its condition holds.
type Action string

const (
	ActionAdvanceStage     Action = "advance_stage"
	ActionFlagReview       Action = "flag_review"
	ActionRequestDocuments Action = "request_documents"
	ActionNotifyAgent      Action = "notify_agent"
)

// RegulatoryBody owns a compliance rule.
type RegulatoryBody string

const (
	BodyFinancialConduct     RegulatoryBody = "financial-conduct"
	BodyTransactionReporting RegulatoryBody = "transaction-reporting"
	BodyPrudential           RegulatoryBody = "prudential"
	BodyMortgageInsurance    RegulatoryBody = "mortgage-insurance"
)

// RuleSeverity ranks compliance rules, independent of document Severity.
type RuleSeverity string

const (
	RuleSeverityLow      RuleSeverity = "low"
	RuleSeverityMedium   RuleSeverity = "medium"
	RuleSeverityHigh     RuleSeverity = "high"
	RuleSeverityCritical RuleSeverity = "critical"
)

// CheckStatus is the outcome of one compliance rule run.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckWarning CheckStatus = "warning"
	CheckFailed  CheckStatus = "failed"
)

// OverallCompliance aggregates a full rule-table run.
type OverallCompliance string

const (
	Compliant    OverallCompliance = "compliant"
	NeedsReview  OverallCompliance = "needs_review"
	NonCompliant OverallCompliance = "non_compliant"
)
