package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"biotrial-analyzer/internal/models"
	"biotrial-analyzer/pkg/utils"
)

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <ticker>",
		Short: "Deep dive into one catalyst",
		Long:  "Show the trial design, triggered red flags, verdict and live price for one ticker.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("catalyst store unavailable")
			}
			ticker := strings.ToUpper(args[0])

			record, err := app.Store.GetCatalystByTicker(cmd.Context(), ticker)
			if err != nil {
				return err
			}

			scorer, err := app.NewScorer()
			if err != nil {
				return err
			}
			assessment, err := scorer.Evaluate(*record)
			if err != nil {
				return err
			}

			// Price is display-only; a failed fetch never blocks the verdict.
			quote, qerr := app.Provider.GetQuote(cmd.Context(), ticker)
			if qerr != nil {
				app.Logger.Debug().Err(qerr).Str("ticker", ticker).Msg("Quote unavailable")
			}

			if sendNotify, _ := cmd.Flags().GetBool("notify"); sendNotify {
				if app.Notifier == nil {
					return fmt.Errorf("notifications not configured, enable them in config.toml")
				}
				if err := app.Notifier.SendRiskAlert(cmd.Context(), *record, assessment); err != nil {
					app.Logger.Warn().Err(err).Str("ticker", ticker).Msg("Risk alert failed")
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"record":     record,
					"assessment": assessment,
					"quote":      quote,
				})
			}

			renderDeepDive(output, app.DateFormat(), record, assessment, quote)
			return nil
		},
	}

	cmd.Flags().Bool("notify", false, "send a risk alert to configured channels")

	return cmd
}

func renderDeepDive(output *Output, dateFormat string, record *models.CatalystRecord, assessment *models.RiskAssessment, quote *models.Quote) {
	output.Bold("%s: %s", record.Ticker, record.Event)
	output.Printf("  Date:      %s\n", record.EventDate.Format(dateFormat))
	output.Printf("  Stage:     %s\n", FormatPhase(record.Phase))
	output.Printf("  Price:     %s\n", FormatPrice(quote))
	if record.HasEnrollment() {
		output.Printf("  Enrolled:  %d\n", *record.EnrollmentN)
	}
	if record.HasRunway() {
		output.Printf("  Runway:    %s\n", utils.FormatMonths(*record.CashRunwayMonths))
	}
	output.Println()

	if assessment.Score > 0 {
		output.Error("%d structural flaw(s) detected:", assessment.Score)
		for _, hit := range assessment.Flags {
			output.Printf("  - %s\n", hit.Reason)
		}
	} else {
		output.Success("Clean trial design")
	}
	output.Println()
	output.Printf("Verdict: %s\n", FormatVerdict(assessment.Verdict, output.colorEnabled))
}
