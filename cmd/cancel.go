package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// cancelCmd represents the cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Abandon the workout in progress",
	Long:  `Abandon the workout in progress without saving anything. Nothing is written to history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		active, err := stateService.GetActiveRun(ctx)
		if err != nil {
			return fmt.Errorf("failed to check active workout: %w", err)
		}
		if active == nil {
			fmt.Println("No workout in progress.")
			return nil
		}

		if err := stateService.ClearActiveRun(ctx); err != nil {
			return fmt.Errorf("failed to cancel workout: %w", err)
		}

		fmt.Println("Workout canceled.")
		return nil
	},
}
