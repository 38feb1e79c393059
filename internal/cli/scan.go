package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"biotrial-analyzer/internal/logging"
	"biotrial-analyzer/internal/models"
	"biotrial-analyzer/internal/notify"
	"biotrial-analyzer/internal/scoring"
	"biotrial-analyzer/internal/store"
)

// scanRow is one line of the scan output.
type scanRow struct {
	Ticker    string           `json:"ticker"`
	EventDate string           `json:"event_date"`
	Event     string           `json:"event"`
	Phase     string           `json:"phase"`
	Price     *float64         `json:"price"`
	Score     int              `json:"score"`
	Flags     []models.RedFlag `json:"flags"`
	Verdict   models.Verdict   `json:"verdict"`
	Error     string           `json:"error,omitempty"`
}

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan upcoming catalysts for structural risk",
		Long: `Scan the catalyst database for upcoming events, score each trial design
against the red-flag rules and display the results with live prices.

Past events are hidden unless --all is given. A record with missing
mandatory fields is reported but never aborts the scan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("catalyst store unavailable")
			}

			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				limit = app.Config.Analyzer.ScanLimit
			}
			includeAll, _ := cmd.Flags().GetBool("all")
			sendNotify, _ := cmd.Flags().GetBool("notify")
			asOf, err := parseAsOf(cmd)
			if err != nil {
				return err
			}

			records, err := app.Store.GetCatalysts(cmd.Context(), store.CatalystFilter{})
			if err != nil {
				return err
			}
			if !includeAll {
				records = scoring.FilterUpcoming(records, asOf)
			}
			if len(records) == 0 {
				output.Warning("No upcoming catalysts found in database")
				return nil
			}
			if len(records) > limit {
				records = records[:limit]
			}

			scorer, err := app.NewScorer()
			if err != nil {
				return err
			}
			results := scorer.EvaluateBatch(records)

			rows := make([]scanRow, 0, len(results))
			for _, res := range results {
				row := scanRow{
					Ticker:    res.Record.Ticker,
					EventDate: res.Record.EventDate.Format(app.DateFormat()),
					Event:     res.Record.Event,
					Phase:     FormatPhase(res.Record.Phase),
				}
				if res.Err != nil {
					row.Error = res.Err.Error()
				} else {
					row.Score = res.Assessment.Score
					row.Flags = res.Assessment.FlagNames()
					row.Verdict = res.Assessment.Verdict
					logging.LogAssessment(app.Logger, res.Record.Ticker, res.Assessment.Score, string(res.Assessment.Verdict))
				}
				if quote, qerr := app.Provider.GetQuote(cmd.Context(), res.Record.Ticker); qerr == nil {
					price := quote.Price
					row.Price = &price
				} else {
					app.Logger.Debug().Err(qerr).Str("ticker", res.Record.Ticker).Msg("Quote unavailable")
				}
				rows = append(rows, row)
			}

			if sendNotify && app.Notifier != nil {
				if err := notifyScan(cmd.Context(), app.Notifier, asOf, results); err != nil {
					app.Logger.Warn().Err(err).Msg("Scan notification failed")
				}
			}

			if output.IsJSON() {
				return output.JSON(rows)
			}
			renderScanTable(output, rows)
			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "maximum catalysts to display (default from config)")
	cmd.Flags().Bool("all", false, "include past events")
	cmd.Flags().Bool("notify", false, "send high-risk summary to configured channels")
	cmd.Flags().String("as-of", "", "treat this date as today (YYYY-MM-DD)")

	return cmd
}

// parseAsOf resolves the explicit today used for date filtering.
func parseAsOf(cmd *cobra.Command) (time.Time, error) {
	value, _ := cmd.Flags().GetString("as-of")
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of date %q: %w", value, err)
	}
	return t, nil
}

func renderScanTable(output *Output, rows []scanRow) {
	output.Bold("Upcoming Catalysts")
	output.Printf("%-6s %-12s %-32s %-8s %-12s %-6s %s\n",
		"TICKER", "DATE", "EVENT", "STAGE", "PRICE", "FLAGS", "VERDICT")

	for _, row := range rows {
		price := "N/A"
		if row.Price != nil {
			price = fmt.Sprintf("$%.2f", *row.Price)
		}
		if row.Error != "" {
			output.Printf("%-6s %-12s %-32s %-8s %-12s %s\n",
				row.Ticker, row.EventDate, truncate(row.Event, 32), row.Phase, price, "data unavailable")
			continue
		}
		output.Printf("%-6s %-12s %-32s %-8s %-12s %-6s %s\n",
			row.Ticker, row.EventDate, truncate(row.Event, 32), row.Phase, price,
			FormatFlagCount(row.Score), FormatVerdict(row.Verdict, output.colorEnabled))
	}
}

// notifyScan sends a summary of high-risk results to the notifier.
func notifyScan(ctx context.Context, notifier notify.Notifier, asOf time.Time, results []scoring.BatchResult) error {
	summary := &notify.ScanSummary{
		ScanDate: asOf,
		Total:    len(results),
	}
	for _, res := range results {
		if res.Err != nil {
			summary.Errors++
			continue
		}
		// High risk means three or more flags.
		if res.Assessment.Score >= 3 {
			summary.HighRisk = append(summary.HighRisk, notify.RiskLine{
				Ticker:    res.Record.Ticker,
				EventDate: res.Record.EventDate,
				Score:     res.Assessment.Score,
				Verdict:   res.Assessment.Verdict,
			})
		}
	}
	return notifier.SendScanSummary(ctx, summary)
}
