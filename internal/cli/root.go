// Package cli contains the newsdesk command tree
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/newsdesk/internal/adapter"
	"github.com/mmcdole/newsdesk/internal/output"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	colorFlag string
	quiet     bool
	cfg       *adapter.Config
	logger    *slog.Logger
	printer   *output.Printer
	version   = "dev"
)

// rootCmd runs the interactive client when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Terminal client for the newsdesk news service",
	Long: `newsdesk browses crawled news articles and hourly AI summaries.

Run without arguments to start the interactive client. The subcommands
cover the same operations for scripts and quick lookups.

Example usage:
  newsdesk                          # Start the interactive client
  newsdesk login                    # Log in and remember the session
  newsdesk articles --search rust   # Search article titles
  newsdesk summaries --published    # List published AI summaries
  newsdesk bookmark add article 42  # Bookmark an article
  newsdesk countdown                # Time until the next summary`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return output.ExitSuccess
	}

	cliErr := output.FromError(err)
	p := printer
	if p == nil {
		p = output.NewPrinterWithOptions(output.PrinterOptions{
			Out: rootCmd.OutOrStdout(),
			Err: rootCmd.ErrOrStderr(),
		})
	}
	p.FormatError(cliErr)
	if logger != nil {
		logger.Debug("command failed", "error", err, "exit_code", cliErr.ExitCode)
	}
	return cliErr.ExitCode
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/newsdesk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr (ignored by the interactive client)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
}

// initConfig loads the configuration and builds the logger and printer.
// The interactive client owns the terminal, so it only ever logs to a file.
func initConfig(cmd *cobra.Command) error {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}
	printer = output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode: mode,
		Quiet:     quiet,
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
	})

	cfg, err = adapter.LoadConfigFile(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "could not load configuration",
			Detail:     err.Error(),
			Suggestion: "Check the file passed with --config",
			ExitCode:   output.ExitConfigError,
		}
	}

	if verbose && cmd.HasParent() {
		logger = adapter.StderrLogger(cmd.ErrOrStderr(), "DEBUG")
	} else {
		logger, err = adapter.SetupLogger(&cfg.Logging)
		if err != nil {
			logger = adapter.NullLogger()
		}
	}
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		"server", cfg.Server.URL,
		"storage", cfg.Storage.Path,
		"page_size", cfg.UI.PageSize,
	)
	return nil
}

// usageError reports a bad flag or argument combination
func usageError(format string, args ...any) error {
	return &output.CLIError{Summary: fmt.Sprintf(format, args...), ExitCode: output.ExitUsageError}
}
