package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func enrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich <restaurant-id>",
		Short: "Enrich one restaurant from the places API and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid restaurant id %q: %w", args[0], err)
			}

			application, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			outcome := application.EnrichmentJob.Run(cmd.Context(), restaurantID)
			if err := printJSON(cmd.OutOrStdout(), outcome); err != nil {
				return err
			}

			if !outcome.Succeeded() {
				return fmt.Errorf("enrichment failed: %s", outcome.Message)
			}
			return nil
		},
	}
}
