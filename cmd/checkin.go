package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mfontan/ironlog/internal/adapters/tui"
	"github.com/mfontan/ironlog/internal/services"
)

var (
	checkinWeight float64
	checkinWin    string
	checkinSleep  float64
	checkinSteps  int
	checkinWater  float64
	checkinEnergy int
)

// checkinCmd represents the checkin command group
var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Weekly check-ins",
	Long:  `Record and browse weekly check-ins: body weight, sleep, steps, water and energy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkinListCmd.RunE(cmd, args)
	},
}

var checkinAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record this week's check-in",
	Long: `Record a weekly check-in. The entry is dated to this week's Tuesday
so every week yields one comparable data point.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if !cmd.Flags().Changed("weight") {
			result := tui.RunTextPrompt("Body weight?", "82.5", &appConfig.Theme)
			if result.Aborted {
				return nil
			}
			weight, err := strconv.ParseFloat(result.Value, 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q", result.Value)
			}
			checkinWeight = weight
		}

		checkIn, err := checkInService.AddCheckIn(ctx, services.AddCheckInRequest{
			Weight:      checkinWeight,
			WeeklyWin:   checkinWin,
			AvgSleep:    checkinSleep,
			AvgSteps:    checkinSteps,
			WaterIntake: checkinWater,
			EnergyLevel: checkinEnergy,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Check-in recorded for %s\n", checkIn.Date.Format("2006-01-02"))
		return nil
	},
}

var checkinListCmd = &cobra.Command{
	Use:   "list",
	Short: "List check-ins, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		checkIns, err := checkInService.ListCheckIns(ctx)
		if err != nil {
			return fmt.Errorf("failed to list check-ins: %w", err)
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(checkIns, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal check-ins: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		if len(checkIns) == 0 {
			fmt.Println("No check-ins yet. Record one with 'ironlog checkin add'.")
			return nil
		}

		for _, c := range checkIns {
			fmt.Printf("%s  %.1f kg  sleep %.1fh  %d steps  %.1fL  energy %d/5",
				c.Date.Format("2006-01-02"), c.Weight, c.AvgSleep, c.AvgSteps, c.WaterIntake, c.EnergyLevel)
			if c.WeeklyWin != "" {
				fmt.Printf("  · %s", c.WeeklyWin)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	checkinCmd.AddCommand(checkinAddCmd)
	checkinCmd.AddCommand(checkinListCmd)

	checkinAddCmd.Flags().Float64Var(&checkinWeight, "weight", 0, "Body weight (prompted when omitted)")
	checkinAddCmd.Flags().StringVar(&checkinWin, "win", "", "Something that went well this week")
	checkinAddCmd.Flags().Float64Var(&checkinSleep, "sleep", 0, "Average hours of sleep per night")
	checkinAddCmd.Flags().IntVar(&checkinSteps, "steps", 0, "Average daily steps")
	checkinAddCmd.Flags().Float64Var(&checkinWater, "water", 0, "Average daily water intake in liters")
	checkinAddCmd.Flags().IntVar(&checkinEnergy, "energy", 3, "Energy level 1-5")
}
