package services

import (
	"context"
	"fmt"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// CheckInService handles weekly check-in use cases.
type CheckInService struct {
	storage ports.Storage
	owner   string
}

// NewCheckInService creates a new check-in service.
func NewCheckInService(storage ports.Storage, owner string) *CheckInService {
	return &CheckInService{storage: storage, owner: owner}
}

// AddCheckInRequest contains the data for a weekly check-in. A zero
// Date defaults to this week's check-in day.
type AddCheckInRequest struct {
	Weight      float64
	WeeklyWin   string
	AvgSleep    float64
	AvgSteps    int
	WaterIntake float64
	EnergyLevel int
}

// AddCheckIn records a weekly check-in.
func (s *CheckInService) AddCheckIn(ctx context.Context, req AddCheckInRequest) (*domain.CheckIn, error) {
	c := domain.NewCheckIn(s.owner)
	c.Weight = req.Weight
	c.WeeklyWin = req.WeeklyWin
	c.AvgSleep = req.AvgSleep
	c.AvgSteps = req.AvgSteps
	c.WaterIntake = req.WaterIntake
	if req.EnergyLevel != 0 {
		c.EnergyLevel = req.EnergyLevel
	}

	if err := s.storage.CheckIns().Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save check-in: %w", err)
	}
	return c, nil
}

// ListCheckIns returns the owner's check-ins, newest first.
func (s *CheckInService) ListCheckIns(ctx context.Context) ([]*domain.CheckIn, error) {
	return s.storage.CheckIns().FindAll(ctx, s.owner)
}

// DeleteCheckIn removes a check-in.
func (s *CheckInService) DeleteCheckIn(ctx context.Context, id string) error {
	if _, err := s.storage.CheckIns().FindByID(ctx, id); err != nil {
		return err
	}
	return s.storage.CheckIns().Delete(ctx, id)
}
