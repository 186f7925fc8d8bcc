// Package app wires configuration, logging, and the cobra command tree
// for the lodestar CLI.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/crossval"
	"github.com/aidirectory/lodestar/pkg/logging"
)

// App is the CLI application: configuration plus lazily-built deps.
type App struct {
	version string
	config  *Config
	logger  *zerolog.Logger
}

// New creates the application, loading configuration from all sources.
func New(version string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.Default()
	return &App{version: version, config: config, logger: logger}, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "lodestar",
		Short:   "AI product data reconciliation pipeline",
		Version: a.version,
		Long: `Lodestar reconciles scraped AI product data into a canonical store:
one JSON document per product, with trust-tiered field-level merging,
duplicate resolution, and cross-entity contamination checks.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.lodestar.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.StoreDir, "store", a.config.StoreDir, "canonical store directory")
	rootCmd.PersistentFlags().StringVar(&a.config.RulesFile, "rules", a.config.RulesFile, "cross-validation rules file (YAML)")

	rootCmd.SetVersionTemplate("lodestar {{.Version}}\n")

	rootCmd.AddCommand(a.NewMergeCommand())
	rootCmd.AddCommand(a.NewScoreCommand())
	rootCmd.AddCommand(a.NewCheckCommand())
	rootCmd.AddCommand(a.NewShowCommand())
	rootCmd.AddCommand(a.NewEnrichCommand())

	return rootCmd
}

// setupCommand is called before any command runs; it applies the parsed
// global flags to the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	level := zerolog.InfoLevel
	if a.config.Verbose {
		level = zerolog.DebugLevel
	}
	if a.config.Quiet {
		level = zerolog.WarnLevel
	}
	logger := logging.Default().Level(level)
	logging.SetDefault(logger)
	a.logger = logging.Default()
	return nil
}

// store opens the canonical store configured for this run.
func (a *App) store() *catalog.Store {
	return catalog.NewStore(a.config.StoreDir)
}

// rules loads the cross-validation rules, falling back to the built-in
// defaults when no rules file is configured.
func (a *App) rules() (crossval.Rules, error) {
	if a.config.RulesFile == "" {
		return crossval.DefaultRules(), nil
	}
	return crossval.LoadRules(a.config.RulesFile)
}

// ContextWithSignals returns a context cancelled on SIGINT or SIGTERM.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// ExitOnError prints an error and exits with status 1. It is meant for
// top-level error handling in main.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
