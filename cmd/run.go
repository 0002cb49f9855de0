package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfontan/ironlog/internal/adapters/tui"
	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/services"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [template]",
	Short: "Start or resume a workout",
	Long: `Start a workout from a template and execute it set by set.

With no argument an interactive picker lists your templates; the
argument can be a template ID or a fuzzy name match. If a workout is
already in progress for the same template it resumes where you left
off. Quitting with q keeps the workout resumable; c cancels it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		template, err := resolveRunTemplate(ctx, args)
		if err != nil {
			return err
		}
		if template == nil {
			return nil // picker aborted
		}

		runService := services.NewRunService(storageAdapter, appConfig.Owner)
		runService.Rest().SetCallbacks(nil, func() {
			_ = notifier.NotifyRestComplete("")
		})

		if err := runService.Load(ctx, template.ID); err != nil {
			return err
		}

		if err := tui.Run(runService, &appConfig.Theme); err != nil {
			return fmt.Errorf("session error: %w", err)
		}

		switch runService.Phase() {
		case domain.RunPhaseSubmitted:
			_ = notifier.NotifyWorkoutSaved(template.Name)
			fmt.Printf("💪 Workout saved: %s\n", template.Name)
		case domain.RunPhaseCanceled:
			fmt.Println("Workout canceled.")
		default:
			fmt.Println("Workout paused. Run the same template to resume, or use 'ironlog cancel'.")
		}
		return nil
	},
}

// resolveRunTemplate picks the template to run: the active run's
// template first, then the argument, then an interactive picker.
func resolveRunTemplate(ctx context.Context, args []string) (*domain.Template, error) {
	active, err := stateService.GetActiveRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check active workout: %w", err)
	}

	if len(args) > 0 {
		template, err := templateService.ResolveTemplate(ctx, args[0])
		if err != nil {
			return nil, fmt.Errorf("no template matching %q", args[0])
		}
		return template, nil
	}

	if active != nil {
		// Bare "run" with a workout in flight resumes it.
		return templateService.GetTemplate(ctx, active.TemplateID)
	}

	templates, err := templateService.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no templates yet; import one with 'ironlog templates import'")
	}

	items := make([]tui.PickerItem, len(templates))
	for i, t := range templates {
		items[i] = tui.PickerItem{
			Label: t.Name,
			Desc:  fmt.Sprintf("%d exercises · %d sets", len(t.Exercises), t.TotalSets()),
		}
	}

	result := tui.RunPicker("Pick a workout", items, "", &appConfig.Theme)
	if result.Aborted {
		return nil, nil
	}
	return templates[result.Index], nil
}
