package main

import (
	"fmt"

	"lunchlog/internal/jobs"
	"lunchlog/internal/services"

	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Queue every restaurant for enrichment",
		Long: `Queue every restaurant for enrichment through the event bus so running API
workers pick them up. Without a configured cache, or with --inline, each
restaurant is enriched in this process instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			repos := application.Repositories
			db := application.Database.SQL

			if inline || !application.EventBus.Distributed() {
				enqueuer := &inlineEnqueuer{job: application.EnrichmentJob}
				sweep := jobs.NewRestaurantSweepJob(repos.Restaurant, db, enqueuer, services.EveryTwoDays)
				if err := sweep.Execute(cmd.Context()); err != nil {
					return err
				}

				succeeded := 0
				for _, outcome := range enqueuer.outcomes {
					if outcome.Succeeded() {
						succeeded++
					}
				}
				if err := printJSON(cmd.OutOrStdout(), enqueuer.outcomes); err != nil {
					return err
				}
				_, err := fmt.Fprintf(
					cmd.ErrOrStderr(),
					"enriched %d of %d restaurants\n",
					succeeded,
					len(enqueuer.outcomes),
				)
				return err
			}

			sweep := jobs.NewRestaurantSweepJob(
				repos.Restaurant,
				db,
				application.EnrichmentQueue,
				services.EveryTwoDays,
			)
			if err := sweep.Execute(cmd.Context()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "sweep queued")
			return err
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "enrich in this process instead of queueing")
	return cmd
}
