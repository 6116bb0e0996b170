package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/documentassistant/internal/models"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the AI service can reach Gemini and Firestore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			status := a.aiService().CheckHealth(ctx)
			if a.jsonOutput {
				if err := a.printJSON(cmd.OutOrStdout(), status); err != nil {
					return err
				}
			} else {
				printHealth(cmd.OutOrStdout(), status)
			}
			if status.Status == models.HealthUnhealthy {
				return fmt.Errorf("AI service is unhealthy: %s", status.Message)
			}
			return nil
		},
	}
}
