package domain

import (
	"time"
)

// CheckIn is a weekly body and habit snapshot, separate from workout
// logs.
type CheckIn struct {
	ID          string
	Owner       string
	Date        time.Time
	Weight      float64
	WeeklyWin   string
	AvgSleep    float64
	AvgSteps    int
	WaterIntake float64
	EnergyLevel int // 1-5
}

// NewCheckIn creates a check-in dated to the current week's check-in
// day.
func NewCheckIn(owner string) *CheckIn {
	return &CheckIn{
		ID:          generateID(),
		Owner:       owner,
		Date:        ThisWeekTuesday(time.Now()),
		EnergyLevel: 3,
	}
}

// ThisWeekTuesday returns the Tuesday of the week containing now,
// truncated to midnight. Check-ins default to a fixed weekday so one
// week yields one comparable data point.
func ThisWeekTuesday(now time.Time) time.Time {
	diff := (int(now.Weekday()) + 7 - int(time.Tuesday)) % 7
	day := now.AddDate(0, 0, -diff)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}
