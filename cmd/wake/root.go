package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wake/internal/core/app"
	"wake/internal/core/config"
	"wake/internal/shared/util"
	"wake/internal/shared/version"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootOptions struct {
	configPath   string
	exclude      []string
	verbose      bool
	haltOnMain   bool
	format       string
	outputFile   string
	color        bool
	failOnUnused bool
	watch        bool
	ui           bool
	history      bool
	metricsAddr  string
	version      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	level := &slog.LevelVar{}

	cmd := &cobra.Command{
		Use:   "wake [flags] PATH...",
		Short: "Find unused functions, classes, properties, attributes and variables in Python code",
		Long: `wake parses every Python file under the given paths, follows their imports,
and reports definitions whose names are never used anywhere in the project.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(cmd.OutOrStdout(), "wake %s\n", version.Version)
				return nil
			}
			if opts.verbose {
				level.Set(slog.LevelDebug)
			}
			if opts.ui && !opts.watch {
				return &exitError{code: exitUsage, err: fmt.Errorf("--ui requires --watch")}
			}
			logOut := cmd.ErrOrStderr()
			if opts.ui {
				// The terminal UI owns the screen; logs and diagnostics go to a file.
				f, err := openLogFile(resolveLogPath())
				if err != nil {
					return &exitError{code: exitFatal, err: err}
				}
				defer f.Close()
				logOut = f
			}
			logger := newLogger(logOut, level)

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return &exitError{code: exitFatal, err: err}
			}
			if cfg.Scan.Verbose {
				level.Set(slog.LevelDebug)
			}

			paths := args
			if len(paths) == 0 {
				paths = cfg.Paths
			}
			if len(paths) == 0 {
				_ = cmd.Usage()
				return &exitError{code: exitUsage, err: fmt.Errorf("no paths given")}
			}
			return runScan(cmd, opts, cfg, paths, logger, logOut)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return &exitError{code: exitUsage, err: err}
	})

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config file")
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "Comma-separated exclusion patterns (e.g. svn,external); repeatable")
	flags.BoolVar(&opts.haltOnMain, "halt-on-main", false, "Stop reading an imported file at its `if __name__ == \"__main__\"` block")
	flags.StringVar(&opts.format, "format", "", "Report format: text, json, tsv or sarif")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Write the report to this file instead of stdout")
	flags.BoolVar(&opts.color, "color", false, "Colorize the text report")
	flags.BoolVar(&opts.failOnUnused, "fail-on-unused", false, "Exit with status 3 when anything is reported")
	flags.BoolVar(&opts.watch, "watch", false, "Rescan whenever a source file changes")
	flags.BoolVar(&opts.ui, "ui", false, "Show watch-mode results in a terminal UI")
	flags.BoolVar(&opts.history, "history", false, "Record each run in the history store")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics and health on this address")
	flags.BoolVar(&opts.version, "version", false, "Print version and exit")
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	cmd.AddCommand(newHistoryCmd(opts, level))
	return cmd
}

// normalizeFlagName accepts underscore spellings such as --halt_on_main.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// loadConfig reads the config file and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("exclude") {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, util.SplitList(opts.exclude)...)
	}
	if flags.Changed("halt-on-main") {
		cfg.Scan.HaltOnMain = opts.haltOnMain
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("output") {
		cfg.Output.File = opts.outputFile
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}
	if flags.Changed("fail-on-unused") {
		cfg.Output.FailOnUnused = opts.failOnUnused
	}
	if flags.Changed("history") {
		cfg.History.Enabled = opts.history
	}
	if flags.Changed("metrics-addr") {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, opts *rootOptions, cfg *config.Config, paths []string, logger *slog.Logger, logOut io.Writer) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appOpts := app.Options{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Logger: logger,
	}
	if opts.ui {
		appOpts.Stdout = logOut
		appOpts.Stderr = logOut
	}
	a, err := app.New(ctx, cfg, appOpts)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	if opts.ui {
		if err := runDashboard(ctx, a, paths, opts.configPath, cmd.OutOrStdout()); err != nil {
			return &exitError{code: exitFatal, err: err}
		}
		return nil
	}
	if opts.watch {
		if err := a.Watch(ctx, paths, app.WatchOptions{ConfigPath: opts.configPath}); err != nil {
			return &exitError{code: exitFatal, err: err}
		}
		return nil
	}

	result, err := a.Scan(ctx, paths)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	if err := a.Emit(result); err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	if cfg.Output.FailOnUnused && result.Counts().Total > 0 {
		return &exitError{code: exitUnused}
	}
	return nil
}
