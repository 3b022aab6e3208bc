package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wake/internal/core/app"
	uireport "wake/internal/ui/report"

	"github.com/spf13/cobra"
)

func newHistoryCmd(root *rootOptions, level *slog.LevelVar) *cobra.Command {
	var (
		project string
		limit   int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored scan runs and how the unused count changed between them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root.verbose {
				level.Set(slog.LevelDebug)
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return &exitError{code: exitFatal, err: err}
			}
			cfg.History.Enabled = true
			cfg.Observability.MetricsAddr = ""

			ctx := cmd.Context()
			a, err := app.New(ctx, cfg, app.Options{
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
				Logger: logger,
			})
			if err != nil {
				return &exitError{code: exitFatal, err: err}
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = a.Close(closeCtx)
			}()

			trend, err := a.HistoryReport(project, limit)
			if err != nil {
				return &exitError{code: exitFatal, err: err}
			}
			var out []byte
			switch format {
			case "json":
				out, err = uireport.RenderTrendJSON(trend)
				out = append(out, '\n')
			case "tsv":
				out, err = uireport.RenderTrendTSV(trend)
			case "text":
				out = []byte(uireport.RenderTrendTable(trend))
			default:
				return &exitError{code: exitUsage, err: fmt.Errorf("unsupported history format %q", format)}
			}
			if err != nil {
				return &exitError{code: exitFatal, err: err}
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&project, "project", "", "Project key (defaults to history.project)")
	flags.IntVar(&limit, "limit", 10, "Number of most recent runs to show; 0 shows all")
	flags.StringVar(&format, "format", "text", "Output format: text, json or tsv")
	return cmd
}
