package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"biotrial-analyzer/internal/logging"
	"biotrial-analyzer/internal/store"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a catalyst dataset from CSV",
		Long: `Import curated catalyst records from a CSV file.

Expected columns: Ticker, Catalyst_Date, Event, Stage, Prior_Phase_Data,
Control_Arm, Endpoint_Type, Enrollment_N, Cash_Runway_Mo.
Re-importing updates existing rows for the same ticker and event date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("catalyst store unavailable")
			}

			result, err := store.ImportCSV(args[0])
			if err != nil {
				return err
			}

			if err := app.Store.SaveCatalysts(cmd.Context(), result.Records); err != nil {
				return err
			}

			logging.LogImport(app.Logger, args[0], len(result.Records), len(result.Skipped))

			if output.IsJSON() {
				return output.JSON(map[string]int{
					"imported": len(result.Records),
					"skipped":  len(result.Skipped),
				})
			}

			output.Success("Imported %d catalyst(s)", len(result.Records))
			for _, skipErr := range result.Skipped {
				output.Warning("Skipped: %v", skipErr)
			}
			return nil
		},
	}
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Fetch a live quote for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			quote, err := app.Provider.GetQuote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logging.LogQuote(app.Logger, quote.Symbol, quote.Price)

			if output.IsJSON() {
				return output.JSON(quote)
			}
			output.Printf("%s  %s  (as of %s)\n",
				quote.Symbol, FormatPrice(quote), quote.AsOf.Format("2006-01-02 15:04"))
			return nil
		},
	}
}
