package cli

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"biotrial-analyzer/internal/agents"
	"biotrial-analyzer/internal/config"
	"biotrial-analyzer/internal/logging"
	"biotrial-analyzer/internal/marketdata"
	"biotrial-analyzer/internal/notify"
	"biotrial-analyzer/internal/scoring"
	"biotrial-analyzer/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.CatalystStore
	Provider marketdata.Provider
	Notifier notify.Notifier
	LLM      agents.LLMClient
}

// DateFormat returns the configured display layout for event dates.
func (a *App) DateFormat() string {
	if a.Config.UI.DateFormat != "" {
		return a.Config.UI.DateFormat
	}
	return "2006-01-02"
}

// NewScorer builds a scorer from the configured thresholds.
func (a *App) NewScorer() (*scoring.Scorer, error) {
	return scoring.NewScorerWithTable(
		a.Config.Analyzer.UnderpoweredMinEnrollment,
		a.Config.Analyzer.DilutionRunwayMonths,
		scoring.DefaultVerdictTable(),
	)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if !cfg.UI.ColorEnabled {
		color.NoColor = true
	}

	// Initialize SQLite store
	catalystStore, err := store.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, import and scan unavailable")
	} else {
		app.Store = catalystStore
		logger.Debug().Msg("SQLite store initialized")
	}

	// Market data provider with quote caching
	yahoo := marketdata.NewYahooClient(cfg.MarketData.BaseURL, cfg.MarketData.Timeout)
	app.Provider = marketdata.NewCachedProvider(yahoo, cfg.MarketData.CacheTTL)

	// Notification channels
	if cfg.Notifications.Enabled {
		notifier, err := notify.NewMultiNotifier(cfg.Notifications)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize notifications")
		} else {
			app.Notifier = notifier
		}
	}

	// LLM client for risk narratives
	if cfg.Credentials.OpenAI.APIKey != "" {
		app.LLM = agents.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Credentials.OpenAI.Model)
		logger.Debug().Str("model", cfg.Credentials.OpenAI.Model).Msg("OpenAI client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "biotrial",
		Short: "BioTrial Analyzer - clinical trial catalyst risk scanner",
		Long: `BioTrial Analyzer cross-references curated clinical trial catalysts with
live stock prices and flags structural trial design risk.

Import a catalyst dataset with 'biotrial import', then scan upcoming
events with 'biotrial scan' or inspect one ticker with 'biotrial show'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/biotrial)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newExplainCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("BioTrial Analyzer v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Analyzer Configuration")
	output.Printf("  Underpowered below N: %d\n", cfg.Analyzer.UnderpoweredMinEnrollment)
	output.Printf("  Dilution runway:      %.1f months\n", cfg.Analyzer.DilutionRunwayMonths)
	output.Printf("  Scan limit:           %d\n", cfg.Analyzer.ScanLimit)
	output.Println()

	output.Bold("Market Data")
	output.Printf("  Base URL:  %s\n", cfg.MarketData.BaseURL)
	output.Printf("  Timeout:   %s\n", cfg.MarketData.Timeout)
	output.Printf("  Cache TTL: %s\n", cfg.MarketData.CacheTTL)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:  %v\n", cfg.Notifications.Enabled)
	output.Printf("  Webhook:  %v\n", cfg.Notifications.Webhook.Enabled)
	output.Printf("  Telegram: %v\n", cfg.Notifications.Telegram.Enabled)

	return nil
}
