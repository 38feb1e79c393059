package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"biotrial-analyzer/internal/agents"
)

func newExplainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <ticker>",
		Short: "AI-written risk narrative for one catalyst",
		Long:  "Ask the configured language model for a plain-English explanation of the red flags behind a verdict.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.LLM == nil {
				return fmt.Errorf("openai api key not configured, set it in credentials.toml or OPENAI_API_KEY")
			}
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

			quote, qerr := app.Provider.GetQuote(cmd.Context(), ticker)
			if qerr != nil {
				app.Logger.Debug().Err(qerr).Str("ticker", ticker).Msg("Quote unavailable")
			}

			output.Info("Generating narrative for %s...", ticker)
			narrative, err := agents.RiskNarrative(cmd.Context(), app.LLM, *record, assessment, quote)
			if err != nil {
				return fmt.Errorf("narrative generation failed: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"ticker":    ticker,
					"verdict":   assessment.Verdict,
					"score":     assessment.Score,
					"narrative": narrative,
				})
			}

			output.Println()
			output.Bold("%s — %s", ticker, assessment.Verdict)
			output.Println()
			output.Println(narrative)
			return nil
		},
	}
}
