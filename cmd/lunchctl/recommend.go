package main

import (
	"fmt"

	"lunchlog/internal/types"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func recommendCmd() *cobra.Command {
	var (
		kind   string
		limit  int
		radius int
	)

	cmd := &cobra.Command{
		Use:   "recommend <user-id>",
		Short: "Print recommendations for a user as JSON",
		Long: `Print recommendations for a user. With no --kind every kind is computed.

Examples:
  lunchctl recommend 0190f3a2-... --kind budget --limit 5
  lunchctl recommend 0190f3a2-... --radius 1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			options := types.DefaultRecommendationOptions()
			options.Radius = radius
			if limit > 0 {
				options.Limit = limit
			}

			application, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			recommendations := application.Services.Recommendation

			if kind == "" {
				if limit <= 0 {
					options.Limit = types.DefaultCombinedLimit
				}
				bundle, err := recommendations.GetAllRecommendations(cmd.Context(), userID, options)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), bundle)
			}

			parsed, err := types.ParseRecommendationKind(kind)
			if err != nil {
				return err
			}

			results, err := recommendations.GetRecommendations(cmd.Context(), userID, parsed, options)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), types.RecommendationResponse{
				RecommendationType: parsed,
				Count:              len(results),
				Recommendations:    results,
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "highly_rated, budget or cuisine_match (default all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per kind")
	cmd.Flags().IntVar(&radius, "radius", types.DefaultSearchRadius, "search radius in metres")
	return cmd
}
