package compliance

import (
	"fmt"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

// thresholds, in percent unless noted
const (
	minDownPaymentPct     = 5.0
	downPaymentWarnFactor = 1.2 // warn inside 1.2x of the minimum
	maxDTIPct             = 44.0
	dtiWarnFactor         = 0.8 // warn above 80% of the cap
	maxLTVPct             = 95.0
	insuranceLTVPct       = 80.0
	reportingThreshold    = 10_000 // currency units, transaction reporting
)

// Verdict is what one rule's validator produces. Any issue marks the check
// failed; otherwise any warning marks it warning.
type Verdict struct {
	Passed          bool
	Issues          []string
	Warnings        []string
	Recommendations []string
}

// Rule is one regulatory check over a full application snapshot. Validators
// are pure and must not touch storage.
type Rule struct {
	ID          string
	Body        constants.RegulatoryBody
	Severity    constants.RuleSeverity
	Description string
	Validate    func(app *entity.Application) Verdict
}

// DefaultRules is the fixed rule table. It is configuration: build once,
// share by reference.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "down-payment-minimum",
			Body:        constants.BodyMortgageInsurance,
			Severity:    constants.RuleSeverityHigh,
			Description: "Down payment must be at least 5% of the purchase price",
			Validate:    checkDownPaymentMinimum,
		},
		{
			ID:          "mortgage-insurance-required",
			Body:        constants.BodyMortgageInsurance,
			Severity:    constants.RuleSeverityMedium,
			Description: "Default insurance is required below 20% down",
			Validate:    checkInsuranceRequired,
		},
		{
			ID:          "debt-to-income-ratio",
			Body:        constants.BodyPrudential,
			Severity:    constants.RuleSeverityCritical,
			Description: "Total debt service must stay within the 44% cap",
			Validate:    checkDebtToIncome,
		},
		{
			ID:          "loan-to-value-ratio",
			Body:        constants.BodyPrudential,
			Severity:    constants.RuleSeverityHigh,
			Description: "Loan-to-value must not exceed 95%",
			Validate:    checkLoanToValue,
		},
		{
			ID:          "large-transaction-reporting",
			Body:        constants.BodyTransactionReporting,
			Severity:    constants.RuleSeverityMedium,
			Description: "Transactions over the reporting threshold must be noted",
			Validate:    checkLargeTransaction,
		},
		{
			ID:          "identity-verification",
			Body:        constants.BodyTransactionReporting,
			Severity:    constants.RuleSeverityCritical,
			Description: "A verified identity document must be on file",
			Validate:    checkIdentityVerified,
		},
		{
			ID:          "applicant-contact-complete",
			Body:        constants.BodyFinancialConduct,
			Severity:    constants.RuleSeverityMedium,
			Description: "Applicant contact details must be complete",
			Validate:    checkContactComplete,
		},
		{
			ID:          "application-document-on-file",
			Body:        constants.BodyFinancialConduct,
			Severity:    constants.RuleSeverityLow,
			Description: "A signed mortgage application document must be on file",
			Validate:    checkApplicationDocument,
		},
	}
}

func checkDownPaymentMinimum(app *entity.Application) Verdict {
	var v Verdict
	if app.PurchasePrice <= 0 {
		v.Warnings = append(v.Warnings, "down-payment ratio indeterminate: purchase price missing")
		return v
	}
	ratio := app.DownPayment / app.PurchasePrice * 100
	switch {
	case ratio < minDownPaymentPct:
		v.Issues = append(v.Issues, fmt.Sprintf("down payment is %.1f%% of purchase price, below the %.0f%% minimum", ratio, minDownPaymentPct))
		v.Recommendations = append(v.Recommendations, "increase down payment to at least 5% of the purchase price")
	case ratio < minDownPaymentPct*downPaymentWarnFactor:
		v.Warnings = append(v.Warnings, fmt.Sprintf("down payment is %.1f%%, close to the %.0f%% minimum", ratio, minDownPaymentPct))
	default:
		v.Passed = true
	}
	return v
}

func checkInsuranceRequired(app *entity.Application) Verdict {
	v := Verdict{Passed: true}
	if app.PurchasePrice <= 0 {
		return v
	}
	if app.DownPayment/app.PurchasePrice*100 < 20 {
		v.Recommendations = append(v.Recommendations, "mortgage default insurance is required below 20% down")
	}
	return v
}

func checkDebtToIncome(app *entity.Application) Verdict {
	var v Verdict
	income := totalIncome(app)
	if income <= 0 {
		v.Warnings = append(v.Warnings, "debt-to-income ratio indeterminate: no income documents with a readable amount")
		return v
	}
	ratio := app.LoanAmount / income * 100
	switch {
	case ratio > maxDTIPct: // exactly 44.0 is not a failure
		v.Issues = append(v.Issues, fmt.Sprintf("debt-to-income ratio %.1f%% exceeds the %.0f%% cap", ratio, maxDTIPct))
		v.Recommendations = append(v.Recommendations, "reduce the requested loan amount or document additional income")
	case ratio > maxDTIPct*dtiWarnFactor:
		v.Warnings = append(v.Warnings, fmt.Sprintf("debt-to-income ratio %.1f%% is above %.1f%%", ratio, maxDTIPct*dtiWarnFactor))
	default:
		v.Passed = true
	}
	return v
}

func checkLoanToValue(app *entity.Application) Verdict {
	var v Verdict
	if app.PurchasePrice <= 0 {
		v.Warnings = append(v.Warnings, "loan-to-value ratio indeterminate: purchase price missing")
		return v
	}
	ltv := app.LoanAmount / app.PurchasePrice * 100
	switch {
	case ltv > maxLTVPct:
		v.Issues = append(v.Issues, fmt.Sprintf("loan-to-value ratio %.1f%% exceeds the %.0f%% limit", ltv, maxLTVPct))
	case ltv > insuranceLTVPct:
		v.Passed = true
		v.Recommendations = append(v.Recommendations, "loan-to-value above 80% requires default insurance")
	default:
		v.Passed = true
	}
	return v
}

func checkLargeTransaction(app *entity.Application) Verdict {
	var v Verdict
	if app.LoanAmount > reportingThreshold {
		// a reporting note, never a failure
		v.Warnings = append(v.Warnings, fmt.Sprintf("loan amount %.0f exceeds the %d reporting threshold; file a large-transaction report", app.LoanAmount, reportingThreshold))
		return v
	}
	v.Passed = true
	return v
}

func checkIdentityVerified(app *entity.Application) Verdict {
	var v Verdict
	ids := app.DocumentsOfType(constants.Identification)
	if len(ids) == 0 {
		v.Issues = append(v.Issues, "no identification document on file")
		v.Recommendations = append(v.Recommendations, "collect government-issued photo identification")
		return v
	}
	for _, d := range ids {
		if d.Verified {
			v.Passed = true
			return v
		}
	}
	v.Warnings = append(v.Warnings, "identification document on file but not verified")
	return v
}

func checkContactComplete(app *entity.Application) Verdict {
	var v Verdict
	if app.ApplicantName == "" {
		v.Issues = append(v.Issues, "applicant name missing")
	}
	if app.ApplicantEmail == "" {
		v.Issues = append(v.Issues, "applicant email missing")
	}
	if app.ApplicantPhone == "" {
		v.Warnings = append(v.Warnings, "applicant phone missing")
	}
	v.Passed = len(v.Issues) == 0 && len(v.Warnings) == 0
	return v
}

func checkApplicationDocument(app *entity.Application) Verdict {
	var v Verdict
	if len(app.DocumentsOfType(constants.MortgageApplication)) == 0 {
		v.Warnings = append(v.Warnings, "no mortgage application document on file")
		return v
	}
	v.Passed = true
	return v
}

func totalIncome(app *entity.Application) float64 {
	var sum float64
	for _, d := range app.DocumentsOfType(constants.IncomeProof) {
		if v, ok := d.Fields["income_amount"]; ok {
			if f, isNum := v.(float64); isNum {
				sum += f
			}
		}
	}
	return sum
}
