package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfontan/ironlog/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workout in progress",
	Long:  `Display the workout currently in progress, if any, with elapsed time and remaining rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		active, err := stateService.GetActiveRun(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		if jsonOutput {
			return outputStatusJSON(ctx, active)
		}

		if active == nil {
			fmt.Println("No workout in progress.")
			return nil
		}

		name := active.TemplateID
		if template, err := stateService.GetTemplate(ctx, active.TemplateID); err == nil {
			name = template.Name
		}

		now := time.Now()
		fmt.Printf("🏋️  %s in progress\n", name)
		fmt.Printf("   started %s ago\n", now.Sub(active.StartedAt).Round(time.Second))
		if left := active.RestSecondsLeft(now); left > 0 {
			fmt.Printf("   ⏱ rest: %ds left\n", left)
		}
		fmt.Println("   'ironlog run' to pick it back up")
		return nil
	},
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(ctx context.Context, active *domain.ActiveRun) error {
	result := map[string]interface{}{
		"active": active != nil,
	}

	if active != nil {
		now := time.Now()
		result["template_id"] = active.TemplateID
		result["started_at"] = active.StartedAt.Format(time.RFC3339)
		result["elapsed"] = now.Sub(active.StartedAt).Round(time.Second).String()
		result["rest_seconds_left"] = active.RestSecondsLeft(now)
		if template, err := stateService.GetTemplate(ctx, active.TemplateID); err == nil {
			result["template_name"] = template.Name
		}
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}
