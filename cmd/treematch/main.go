// Package main provides the treematch CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cqfn/patternika-sub000/pkg/config"
	"github.com/cqfn/patternika-sub000/pkg/observability"
	"github.com/cqfn/patternika-sub000/pkg/version"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration and telemetry.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.MatchMetrics
	palette   palette
	cfgPath   string
	colorMode string
	verbose   bool

	initObservability observabilityInit
}

type observabilityInit func(observability.Config) (observability.Providers, error)

func newRootCmd() *cobra.Command {
	return newRootCmdWithDeps(observability.Init)
}

func newRootCmdWithDeps(initObservability observabilityInit) *cobra.Command {
	state := &app{initObservability: initObservability}

	rootCmd := &cobra.Command{
		Use:   "treematch",
		Short: "Structural matching of syntax trees",
		Long: `treematch computes a node-to-node correspondence between two syntax trees
and reports what was removed, added, and modified.

Trees are read from YAML tree descriptions or UAST JSON documents.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&state.cfgPath, "config", "", "config file (default is .treematch.yaml)")
	rootCmd.PersistentFlags().StringVar(&state.colorMode, "color", "", "color mode: auto, always, never")
	rootCmd.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "log matching phases at debug level")

	rootCmd.AddCommand(matchCmd(state))
	rootCmd.AddCommand(hashCmd(state))
	rootCmd.AddCommand(validateCmd(state))
	rootCmd.AddCommand(versionCmd())

	for _, sub := range rootCmd.Commands() {
		if sub.RunE != nil {
			sub.RunE = state.withShutdown(sub.RunE)
		}
	}

	return rootCmd
}

// withShutdown flushes telemetry once run returns, failed runs included.
func (state *app) withShutdown(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.Join(err, state.shutdown(cmd.Context()))
		}()

		return run(cmd, args)
	}
}

func (state *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(state.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if state.verbose {
		cfg.Logging.Level = "debug"
	}

	if state.colorMode != "" {
		if !slices.Contains([]string{config.ColorAuto, config.ColorAlways, config.ColorNever}, state.colorMode) {
			return fmt.Errorf("%w: %q", config.ErrInvalidColor, state.colorMode)
		}

		cfg.Output.Color = state.colorMode
	}

	obsCfg, err := observabilityConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	providers, err := state.initObservability(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	state.providers = providers

	metrics, err := observability.NewMatchMetrics(providers.Meter)
	if err != nil {
		return errors.Join(fmt.Errorf("init metrics: %w", err), state.shutdown(cmd.Context()))
	}

	state.cfg = cfg
	state.metrics = metrics
	state.palette = newPalette(cfg.Output.Color)

	return nil
}

func (state *app) shutdown(ctx context.Context) error {
	if state.providers.Shutdown == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := state.providers.Shutdown(ctx); err != nil {
		return fmt.Errorf("flush telemetry: %w", err)
	}

	return nil
}

func observabilityConfig(cfg *config.Config, logOutput io.Writer) (observability.Config, error) {
	level, err := observability.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Get().Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.LogFormatJSON
	obsCfg.LogOutput = logOutput

	return obsCfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// Version must work even with a broken config file.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "treematch %s\n", version.Get())
		},
	}
}

// palette holds the colors of the terminal output. Each color is forced on
// or off per mode, leaving the process-wide color.NoColor untouched.
type palette struct {
	removed  *color.Color
	added    *color.Color
	modified *color.Color
	ok       *color.Color
	failed   *color.Color
	hint     *color.Color
}

func newPalette(mode string) palette {
	colors := palette{
		removed:  color.New(color.FgRed),
		added:    color.New(color.FgGreen),
		modified: color.New(color.FgYellow),
		ok:       color.New(color.FgGreen, color.Bold),
		failed:   color.New(color.FgRed, color.Bold),
		hint:     color.New(color.FgCyan),
	}

	for _, current := range []*color.Color{
		colors.removed, colors.added, colors.modified, colors.ok, colors.failed, colors.hint,
	} {
		switch mode {
		case config.ColorAlways:
			current.EnableColor()
		case config.ColorNever:
			current.DisableColor()
		}
	}

	return colors
}
