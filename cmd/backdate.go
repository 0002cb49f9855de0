package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfontan/ironlog/internal/domain"
)

var (
	backdateDate     string
	backdateDuration time.Duration
	backdateQuality  int
	backdateDiff     int
	backdateNotes    string
)

// backdateCmd represents the backdate command
var backdateCmd = &cobra.Command{
	Use:   "backdate <template>",
	Short: "Log a workout done in the past",
	Long: `Record a workout you did without the app. Every set of the template
is counted as completed, prefilled with the weights and reps of your
most recent run of it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		template, err := templateService.ResolveTemplate(ctx, args[0])
		if err != nil {
			return fmt.Errorf("no template matching %q", args[0])
		}

		startedAt, err := parseBackdate(backdateDate)
		if err != nil {
			return err
		}

		fb := domain.Feedback{
			Quality:    backdateQuality,
			Difficulty: backdateDiff,
			Notes:      backdateNotes,
		}

		record, err := historyService.BackdateLog(ctx, template.ID, startedAt, backdateDuration, fb)
		if err != nil {
			return err
		}

		fmt.Printf("Logged %q on %s (%d sets)\n", template.Name, record.StartedAt.Format("2006-01-02"), len(record.Entries))
		return nil
	},
}

// parseBackdate accepts a date or a full timestamp. A bare date lands
// at 12:00 local time.
func parseBackdate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("--date is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if d, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return d.Add(12 * time.Hour), nil
	}
	return time.Time{}, fmt.Errorf("invalid --date %q, want 2006-01-02 or RFC 3339", value)
}

func init() {
	backdateCmd.Flags().StringVar(&backdateDate, "date", "", "When the workout happened (2006-01-02 or RFC 3339)")
	backdateCmd.Flags().DurationVar(&backdateDuration, "duration", time.Hour, "How long the workout took")
	backdateCmd.Flags().IntVar(&backdateQuality, "quality", 0, "Workout quality 1-5")
	backdateCmd.Flags().IntVar(&backdateDiff, "difficulty", 0, "Workout difficulty 1-5")
	backdateCmd.Flags().StringVar(&backdateNotes, "notes", "", "Notes about the workout")
	_ = backdateCmd.MarkFlagRequired("date")
}
