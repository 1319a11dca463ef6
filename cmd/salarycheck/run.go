package main

import (
	"salarycheck/internal/pipeline"

	"github.com/spf13/cobra"
)

type runOptions struct {
	month       string
	windowHours float64
	dryRun      bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the month's payroll uploads and email each reviewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			runOpts := pipeline.RunOptions{Month: opts.month, WindowHours: opts.windowHours}
			if err := runOpts.Validate(); err != nil {
				return err
			}

			runner, err := pipeline.FromConfig(e.cfg, pipeline.NewSender(e.cfg, opts.dryRun, e.log), e.log)
			if err != nil {
				return err
			}

			res := runner.Run(cmd.Context(), runOpts)
			cmd.Printf("run %s month %s: %d rows, %d new, %d stale, %d completed, %d sent",
				res.RunID, res.Month, res.Records, res.NewPending, res.Stale, res.Completed, res.Summary.Sent())
			if res.Halted != "" {
				cmd.Printf(" (halted: %s)", res.Halted)
			}
			cmd.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.month, "month", "", "Payroll month YYYY-MM (default: previous month)")
	cmd.Flags().Float64Var(&opts.windowHours, "window-hours", 0, "Recent window in hours (default: WINDOW_HOURS)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log digests instead of sending them")

	return cmd
}
