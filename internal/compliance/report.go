package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/homelend/docflow/constants"
	"github.com/homelend/docflow/internal/entity"
)

var bodyOrder = []constants.RegulatoryBody{
	constants.BodyFinancialConduct,
	constants.BodyTransactionReporting,
	constants.BodyPrudential,
	constants.BodyMortgageInsurance,
}

var bodyTitles = map[constants.RegulatoryBody]string{
	constants.BodyFinancialConduct:     "Financial Conduct",
	constants.BodyTransactionReporting: "Transaction Reporting",
	constants.BodyPrudential:           "Prudential",
	constants.BodyMortgageInsurance:    "Mortgage Insurance",
}

var statusMarks = map[constants.CheckStatus]string{
	constants.CheckPassed:  "PASS",
	constants.CheckWarning: "WARN",
	constants.CheckFailed:  "FAIL",
}

// renderReport produces the human-readable Markdown report, checks grouped
// by regulatory body.
func renderReport(app *entity.Application, overall constants.OverallCompliance, checks []entity.ComplianceCheck, checkedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Compliance Report\n\n")
	fmt.Fprintf(&b, "Application: %s (%s)\n\n", app.ApplicantName, app.ID)
	fmt.Fprintf(&b, "Checked at: %s\n\n", checkedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Overall status: **%s**\n", overall)

	for _, body := range bodyOrder {
		var section []entity.ComplianceCheck
		for _, c := range checks {
			if c.Body == body {
				section = append(section, c)
			}
		}
		if len(section) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", bodyTitles[body])
		for _, c := range section {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", statusMarks[c.Status], c.RuleID, c.Description)
			for _, note := range c.Notes {
				fmt.Fprintf(&b, "  - %s\n", note)
			}
		}
	}

	return b.String()
}
