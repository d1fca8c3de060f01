// Package cli implements the getaway command line: one-shot commands and an
// interactive session shell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alex-user-go/getaway/internal/app"
	"github.com/alex-user-go/getaway/internal/cli/output"
	"github.com/alex-user-go/getaway/internal/config"
	"github.com/alex-user-go/getaway/internal/logging"
)

// env carries global flags and the wired application to subcommands.
type env struct {
	jsonOut  bool
	apiBase  string
	logLevel string
	noColor  bool

	app     *app.App
	printer *output.Printer
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if e.apiBase != "" {
		cfg.APIBase = e.apiBase
	}
	if e.logLevel != "" {
		cfg.LogLevel = e.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	colors := output.ResolveColors(e.noColor)
	logger := logging.New(logging.Options{
		Writer:  cmd.ErrOrStderr(),
		Level:   cfg.Level(),
		JSON:    cfg.LogFormat == "json",
		NoColor: !colors,
	})

	e.app = app.New(cfg, logger)
	e.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), colors)

	logger.Debug("configuration loaded",
		"api_base", cfg.APIBase,
		"timeout", cfg.Timeout,
		"currency", cfg.Currency,
		"hotels_limit", cfg.HotelsLimit)

	return nil
}

// render writes v as JSON in --json mode, else calls text.
func (e *env) render(v any, text func() error) error {
	if e.jsonOut {
		return e.printer.JSON(v)
	}
	return text()
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "getaway",
		Short: "Search weekend hotel and flight packages",
		Long: `getaway searches hotels for a destination and dates, enriches hotels with
their full rate list, pairs a flight and locks (prebooks) a price.

Environment variables:
  GETAWAY_API_BASE      booking API base URL (default: http://localhost:3001)
  GETAWAY_TIMEOUT       per-request timeout (default: 15s)
  GETAWAY_CURRENCY      currency (default: EUR)
  GETAWAY_LOG_LEVEL     debug, info, warn or error (default: info)
  GETAWAY_METRICS_ADDR  serve /healthz, /metrics and /session from the shell

Example usage:
  getaway search Reykjavik --checkin 2025-06-01 --nights 3 --adults 2
  getaway rates --id h-harbor --checkin 2025-06-01 --nights 3
  getaway flights LHR KEF --date 2025-06-01
  getaway shell`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&e.jsonOut, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&e.apiBase, "api-base", "", "booking API base URL (overrides GETAWAY_API_BASE)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level (overrides GETAWAY_LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&e.noColor, "no-color", false, "disable colored output")

	root.AddCommand(SearchCmd(e))
	root.AddCommand(RatesCmd(e))
	root.AddCommand(PrebookCmd(e))
	root.AddCommand(InfoCmd(e))
	root.AddCommand(FlightsCmd(e))
	root.AddCommand(FullCmd(e))
	root.AddCommand(ShellCmd(e))

	return root
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, version string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd(version)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		printer := output.NewPrinter(stdout, stderr, output.ResolveColors(false))
		printer.Error("%s", errorMessage(err))
		return 1
	}
	return 0
}

// errorMessage strips context cancellation noise from interrupted commands.
func errorMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}
	return err.Error()
}
