package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfontan/ironlog/internal/domain"
)

var historyLimit int

// historyCmd represents the history command group
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse completed workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed workouts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		records, err := historyService.List(ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if jsonOutput {
			return outputHistoryJSON(ctx, records)
		}

		if len(records) == 0 {
			fmt.Println("No workouts logged yet.")
			return nil
		}

		for _, r := range records {
			fmt.Printf("%-36s  %s  %s  %d sets  %s\n",
				r.ID,
				r.StartedAt.Format("2006-01-02 15:04"),
				templateName(ctx, r.TemplateID),
				len(r.Entries),
				formatFeedback(r.Feedback),
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <log-id>",
	Short: "Show a completed workout in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		record, err := historyService.Get(ctx, args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal log: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		fmt.Printf("%s · %s\n", templateName(ctx, record.TemplateID), record.StartedAt.Format("2006-01-02 15:04"))
		fmt.Printf("duration: %s\n", record.Duration().Round(time.Second))
		if record.Feedback != (domain.Feedback{}) {
			fmt.Printf("feedback: %s\n", formatFeedback(record.Feedback))
		}
		fmt.Println()
		for _, e := range record.Entries {
			fmt.Printf("  exercise %d set %d: %.4g kg × %d\n", e.ExerciseIndex+1, e.SetIndex+1, e.Weight, e.Reps)
		}
		return nil
	},
}

var (
	editStart  string
	editEnd    string
	editSet    []int
	editWeight float64
	editReps   int
)

var historyEditCmd = &cobra.Command{
	Use:   "edit <log-id>",
	Short: "Edit a completed workout",
	Long: `Edit a stored workout log. Use --start/--end to move its time window,
or --set with --weight/--reps to rewrite one completed set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id := args[0]

		edited := false

		if editStart != "" || editEnd != "" {
			record, err := historyService.Get(ctx, id)
			if err != nil {
				return err
			}
			startedAt, endedAt := record.StartedAt, record.EndedAt
			if editStart != "" {
				startedAt, err = time.Parse(time.RFC3339, editStart)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}
			if editEnd != "" {
				endedAt, err = time.Parse(time.RFC3339, editEnd)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}
			if _, err := historyService.EditLogTimes(ctx, id, startedAt, endedAt); err != nil {
				return err
			}
			edited = true
		}

		if len(editSet) > 0 {
			if len(editSet) != 2 {
				return fmt.Errorf("--set takes exercise and set numbers, e.g. --set 1,2")
			}
			key := domain.EntryKey{Exercise: editSet[0] - 1, Set: editSet[1] - 1}
			if _, err := historyService.EditLogEntry(ctx, id, key, editWeight, editReps); err != nil {
				return err
			}
			edited = true
		}

		if !edited {
			return fmt.Errorf("nothing to edit; pass --start, --end or --set")
		}
		fmt.Println("Log updated.")
		return nil
	},
}

func templateName(ctx context.Context, templateID string) string {
	if template, err := stateService.GetTemplate(ctx, templateID); err == nil {
		return template.Name
	}
	return templateID
}

func formatFeedback(fb domain.Feedback) string {
	if fb == (domain.Feedback{}) {
		return ""
	}
	s := fmt.Sprintf("quality %d/5, difficulty %d/5", fb.Quality, fb.Difficulty)
	if fb.Notes != "" {
		s += " · " + fb.Notes
	}
	return s
}

func outputHistoryJSON(ctx context.Context, records []*domain.CompletionRecord) error {
	var result []map[string]interface{}
	for _, r := range records {
		result = append(result, map[string]interface{}{
			"id":             r.ID,
			"template_id":    r.TemplateID,
			"template_name":  templateName(ctx, r.TemplateID),
			"started_at":     r.StartedAt.Format(time.RFC3339),
			"ended_at":       r.EndedAt.Format(time.RFC3339),
			"completed_sets": len(r.Entries),
			"quality":        r.Feedback.Quality,
			"difficulty":     r.Feedback.Difficulty,
			"notes":          r.Feedback.Notes,
		})
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyEditCmd)

	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of workouts to list")

	historyEditCmd.Flags().StringVar(&editStart, "start", "", "New start time (RFC 3339)")
	historyEditCmd.Flags().StringVar(&editEnd, "end", "", "New end time (RFC 3339)")
	historyEditCmd.Flags().IntSliceVar(&editSet, "set", nil, "Exercise and set numbers to rewrite, e.g. 1,2")
	historyEditCmd.Flags().Float64Var(&editWeight, "weight", 0, "New weight for the set")
	historyEditCmd.Flags().IntVar(&editReps, "reps", 0, "New rep count for the set")
}
