package main

import (
	"salarycheck/internal/db"
	"salarycheck/internal/pipeline"
	"salarycheck/internal/snapshot"

	"github.com/spf13/cobra"
)

type refreshOptions struct {
	month  string
	output string
}

func newRefreshCmd() *cobra.Command {
	var opts refreshOptions

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Write the classified rows to the JSON snapshot and database without sending mail",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			runOpts := pipeline.RunOptions{Month: opts.month, OutputPath: opts.output}
			if err := runOpts.Validate(); err != nil {
				return err
			}

			runner, err := pipeline.FromConfig(e.cfg, pipeline.NewSender(e.cfg, true, e.log), e.log)
			if err != nil {
				return err
			}

			if e.cfg.DatabaseURL != "" {
				conn, err := db.InitDB(e.cfg.DatabaseURL, false)
				if err != nil {
					return err
				}
				if err := db.Migrate(conn); err != nil {
					return err
				}
				runner.WithStore(snapshot.NewStore(conn))
			}

			res := runner.Refresh(cmd.Context(), runOpts)
			if res.Halted != "" {
				cmd.Printf("refresh %s month %s halted: %s\n", res.RunID, res.Month, res.Halted)
				return nil
			}
			cmd.Printf("refresh %s month %s: %d rows written to %s\n", res.RunID, res.Month, res.Records, res.Snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.month, "month", "", "Payroll month YYYY-MM (default: previous month)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Snapshot file path (default: OUTPUT_PATH)")

	return cmd
}
