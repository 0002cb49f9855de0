package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfontan/ironlog/internal/domain"
)

// templatesCmd represents the templates command group
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage workout templates",
	Long:  `List, inspect, import, export and delete workout templates. Templates are authored as YAML files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return templatesListCmd.RunE(cmd, args)
	},
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workout templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		templates, err := templateService.ListTemplates(ctx)
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(templates, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal templates: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		if len(templates) == 0 {
			fmt.Println("No templates yet. Import one with 'ironlog templates import <file.yaml>'.")
			return nil
		}

		for _, t := range templates {
			rest := ""
			if t.RestPeriod > 0 {
				rest = fmt.Sprintf(" · %ds rest", t.RestPeriod)
			}
			lastDone := "never"
			if prior, err := historyService.PriorCompletion(ctx, t.ID); err == nil && prior != nil {
				lastDone = prior.StartedAt.Format("2006-01-02")
			}
			fmt.Printf("%-36s  %s (%d exercises, %d sets%s) · last done %s\n",
				t.ID, t.Name, len(t.Exercises), t.TotalSets(), rest, lastDone)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template>",
	Short: "Show a template's exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		template, err := templateService.ResolveTemplate(ctx, args[0])
		if err != nil {
			return fmt.Errorf("no template matching %q", args[0])
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(template, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal template: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		fmt.Printf("%s\n", template.Name)
		if template.RestPeriod > 0 {
			fmt.Printf("rest between sets: %ds\n", template.RestPeriod)
		}
		fmt.Println()
		for i, ex := range template.Exercises {
			fmt.Printf("%d. %s\n", i+1, ex.Name)
			for j, spec := range ex.SetSpecs() {
				printSetSpec(j+1, spec)
			}
			if ex.VideoID != "" {
				fmt.Printf("   ▶ https://www.youtube.com/watch?v=%s\n", ex.VideoID)
			}
		}
		return nil
	},
}

func printSetSpec(setNo int, spec domain.SetSpec) {
	line := fmt.Sprintf("   set %d: %d-%d reps", setNo, spec.MinReps, spec.MaxReps)
	if spec.MaxReps == 0 {
		line = fmt.Sprintf("   set %d", setNo)
	}
	if spec.Note != "" {
		line += " · " + spec.Note
	}
	fmt.Println(line)
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import a template from a YAML file",
	Long: `Import a workout template from a YAML file. Re-importing a file whose
name matches an existing template updates it in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		template, err := templateService.ImportTemplate(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Imported %q (%d exercises, %d sets)\n", template.Name, len(template.Exercises), template.TotalSets())
		return nil
	},
}

var templatesExportCmd = &cobra.Command{
	Use:   "export <template> <file.yaml>",
	Short: "Export a template to a YAML file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		template, err := templateService.ResolveTemplate(ctx, args[0])
		if err != nil {
			return fmt.Errorf("no template matching %q", args[0])
		}

		if err := templateService.ExportTemplate(ctx, template.ID, args[1]); err != nil {
			return err
		}

		fmt.Printf("Exported %q to %s\n", template.Name, args[1])
		return nil
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <template>",
	Short: "Delete a template",
	Long:  `Delete a workout template. Its logged workouts stay in history.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		template, err := templateService.ResolveTemplate(ctx, args[0])
		if err != nil {
			return fmt.Errorf("no template matching %q", args[0])
		}

		if err := templateService.DeleteTemplate(ctx, template.ID); err != nil {
			return err
		}

		fmt.Printf("Deleted %q\n", template.Name)
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesImportCmd)
	templatesCmd.AddCommand(templatesExportCmd)
	templatesCmd.AddCommand(templatesDeleteCmd)
}
