package constants

type StageID string

const (
	StageDocumentCollection   StageID = "document_collection"
	StageIncomeVerification   StageID = "income_verification"
	StageAssetVerification    StageID = "asset_verification"
	StageIdentityVerification StageID = "identity_verification"
	StageUnderwriting         StageID = "underwriting"
	StageFinalApproval        StageID = "final_approval"
)

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusInProgress  ApplicationStatus = "in_progress"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusOnHold      ApplicationStatus = "on_hold"
)
