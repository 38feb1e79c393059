package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"biotrial-analyzer/internal/models"
	"biotrial-analyzer/pkg/utils"
)

var (
	verdictClean    = color.New(color.FgGreen)
	verdictCaution  = color.New(color.FgYellow)
	verdictHighRisk = color.New(color.FgRed)
	verdictAvoid    = color.New(color.FgRed, color.Bold)
)

// FormatVerdict renders a verdict with severity coloring.
func FormatVerdict(v models.Verdict, colorEnabled bool) string {
	if !colorEnabled {
		return string(v)
	}
	switch v {
	case models.VerdictClean:
		return verdictClean.Sprint(string(v))
	case models.VerdictCaution:
		return verdictCaution.Sprint(string(v))
	case models.VerdictHighRisk:
		return verdictHighRisk.Sprint(string(v))
	case models.VerdictAvoid:
		return verdictAvoid.Sprint(string(v))
	}
	return string(v)
}

// FormatPrice renders a quote price, or N/A when the quote is missing.
func FormatPrice(quote *models.Quote) string {
	if quote == nil {
		return "N/A"
	}
	return utils.FormatUSD(quote.Price)
}

// FormatPhase renders a trial phase for display.
func FormatPhase(p models.TrialPhase) string {
	switch p {
	case models.Phase1:
		return "Phase 1"
	case models.Phase2:
		return "Phase 2"
	case models.Phase3:
		return "Phase 3"
	}
	return string(p)
}

// FormatFlagCount renders a flag count cell for the scan table.
func FormatFlagCount(score int) string {
	if score == 0 {
		return "-"
	}
	return fmt.Sprintf("%d %s", score, strings.Repeat("!", score))
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
