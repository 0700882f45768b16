package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/mailkit/config"
	"github.com/s0up4200/mailkit/filter"
	"github.com/s0up4200/mailkit/manager"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	mgr      *manager.Manager
	filters  *filter.Manager
	registry *prometheus.Registry

	// Command flags
	dryRun bool
	output string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mailkit",
	Short: "Manage a MailerLite account from the command line",
	Long: `mailkit wraps the MailerLite API: list, inspect and remove subscribers,
campaigns, groups, fields, segments, automations and webhooks, and narrow
any listing down with a filter expression.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "show what would change without calling the API")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
}

// initializeApp loads the configuration and builds the manager
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	switch output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format: %s", output)
	}

	opts := manager.Options{
		APIKey:  cfg.MailerLite.APIKey,
		BaseURL: cfg.MailerLite.URL,
		Timeout: cfg.MailerLite.TimeoutDuration(),
	}
	if cfg.MailerLite.Metrics {
		registry = prometheus.NewRegistry()
		opts.Registerer = registry
	}

	mgr, err = manager.New(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to create MailerLite client: %w", err)
	}

	filters = filter.NewManager(filter.WithLogger(logger))
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return err
	}
	if len(cfg.Filter) > 0 {
		logger.Debug().Strs("filters", filters.ListFilters()).Msg("Named filters loaded")
	}

	return nil
}

// shutdownApp stops the filter workers and prints request metrics when
// they are enabled
func shutdownApp(cmd *cobra.Command, args []string) error {
	if filters != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := filters.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("Filter workers did not stop in time")
		}
	}

	if registry == nil {
		return nil
	}
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, family); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// confirm asks a yes/no question on stdin; anything but "y" is a no
func confirm(format string, args ...any) bool {
	fmt.Printf(format+" [y/N]: ", args...)
	var response string
	fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
