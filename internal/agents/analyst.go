package agents

import (
	"context"
	"fmt"
	"strings"

	"biotrial-analyzer/internal/models"
)

const analystSystemPrompt = `You are a biotech trading analyst. You receive a clinical
trial catalyst with its structural red flags already identified. Summarize the setup
in plain English for a retail trader: what the flags mean, what the verdict implies,
and what to watch before the event date. Do not invent data beyond what is given.
Keep it under 200 words.`

// RiskNarrative asks the LLM for a plain-English summary of an assessment.
// The quote is optional; pass nil when the price is unavailable.
func RiskNarrative(ctx context.Context, llm LLMClient, record models.CatalystRecord, assessment *models.RiskAssessment, quote *models.Quote) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Ticker: %s\n", record.Ticker)
	fmt.Fprintf(&b, "Event: %s on %s\n", record.Event, record.EventDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Phase: %s, arm design: %s, endpoint: %s\n", record.Phase, record.ArmDesign, record.Endpoint)
	if record.HasEnrollment() {
		fmt.Fprintf(&b, "Enrollment: %d\n", *record.EnrollmentN)
	}
	if record.HasRunway() {
		fmt.Fprintf(&b, "Cash runway: %.1f months\n", *record.CashRunwayMonths)
	}
	if quote != nil {
		fmt.Fprintf(&b, "Last price: %.2f (as of %s)\n", quote.Price, quote.AsOf.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(&b, "\nRed flags (%d):\n", assessment.Score)
	if len(assessment.Flags) == 0 {
		b.WriteString("none\n")
	}
	for _, hit := range assessment.Flags {
		fmt.Fprintf(&b, "- %s\n", hit.Reason)
	}
	fmt.Fprintf(&b, "Verdict: %s\n", assessment.Verdict)

	return llm.CompleteWithSystem(ctx, analystSystemPrompt, b.String())
}
