package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/leofalp/ragcalc/core/cost"
	"github.com/leofalp/ragcalc/core/overview"
	"github.com/leofalp/ragcalc/internal/app"
	"github.com/leofalp/ragcalc/internal/config"
	"github.com/leofalp/ragcalc/providers/observability/slogobs"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ragcalc",
		Short: "Tool-calling assistant for arithmetic and word lookups",
		Long: `ragcalc talks to a language model that answers questions by calling tools.

Arithmetic goes through the add, subtract, multiply and divide tools, which
round to two decimals. Unfamiliar words are resolved with the lookup tool,
backed by an in-memory semantic index over a small corpus of definitions.
The closest definition is also attached to every model request as context.

Configuration comes from ragcalc.yaml, RAGCALC_* environment variables and
a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (default ./ragcalc.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (compact, pretty, json)")

	cmd.AddCommand(
		NewAskCmd(),
		NewDemoCmd(),
		NewLookupCmd(),
		NewToolsCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads .env, the config file and the environment, then applies
// the logging flag overrides.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

// newObserver builds the slog observer described by cfg. Logs go to the
// command's stderr so answers on stdout stay clean.
func newObserver(cmd *cobra.Command, cfg *config.Config) (*slogobs.Observer, error) {
	level, err := slogobs.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return slogobs.New(
		slogobs.WithLevel(level),
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Log.Format)),
		slogobs.WithOutput(cmd.ErrOrStderr()),
	), nil
}

// buildApp loads configuration and wires the whole application.
func buildApp(ctx context.Context, cmd *cobra.Command) (*app.App, *slogobs.Observer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	observer, err := newObserver(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	application, err := app.New(ctx, cfg, observer)
	if err != nil {
		return nil, nil, err
	}
	return application, observer, nil
}

// startUsage returns ctx carrying a fresh overview priced from cfg, or ctx
// unchanged and a nil overview when tracking is off.
func startUsage(ctx context.Context, cfg *config.Config, enabled bool) (context.Context, *overview.Overview) {
	if !enabled {
		return ctx, nil
	}
	var pricing *cost.ModelCost
	if !cfg.Pricing.IsZero() {
		p := cfg.Pricing
		pricing = &p
	}
	usage := overview.New(pricing)
	usage.StartExecution()
	return usage.ToContext(ctx), usage
}

// reportUsage prints the usage summary to stderr.
func reportUsage(cmd *cobra.Command, usage *overview.Overview) {
	if usage == nil {
		return
	}
	usage.EndExecution()
	fmt.Fprintf(cmd.ErrOrStderr(), "Usage: %s\n", usage.CostSummary())
}
