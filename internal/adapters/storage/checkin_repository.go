package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// checkInRepository implements ports.CheckInRepository using SQLite.
type checkInRepository struct {
	db *sql.DB
}

// newCheckInRepository creates a new check-in repository.
func newCheckInRepository(db *sql.DB) ports.CheckInRepository {
	return &checkInRepository{db: db}
}

// Save persists a check-in to storage.
func (r *checkInRepository) Save(ctx context.Context, c *domain.CheckIn) error {
	query := `
		INSERT INTO checkins (id, owner, date, weight, weekly_win, avg_sleep, avg_steps, water_intake, energy_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Owner,
		c.Date,
		c.Weight,
		c.WeeklyWin,
		c.AvgSleep,
		c.AvgSteps,
		c.WaterIntake,
		c.EnergyLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to save check-in: %w", err)
	}

	return nil
}

// FindByID retrieves a check-in by its unique identifier.
func (r *checkInRepository) FindByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	query := `
		SELECT id, owner, date, weight, weekly_win, avg_sleep, avg_steps, water_intake, energy_level
		FROM checkins
		WHERE id = ?
	`

	c, err := r.scanCheckIn(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrCheckInNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find check-in: %w", err)
	}
	return c, nil
}

// FindAll retrieves the owner's check-ins, newest first.
func (r *checkInRepository) FindAll(ctx context.Context, owner string) ([]*domain.CheckIn, error) {
	query := `
		SELECT id, owner, date, weight, weekly_win, avg_sleep, avg_steps, water_intake, energy_level
		FROM checkins
		WHERE owner = ?
		ORDER BY date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var checkIns []*domain.CheckIn
	for rows.Next() {
		c, err := r.scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, rows.Err()
}

// Update modifies an existing check-in.
func (r *checkInRepository) Update(ctx context.Context, c *domain.CheckIn) error {
	query := `
		UPDATE checkins
		SET date = ?, weight = ?, weekly_win = ?, avg_sleep = ?, avg_steps = ?, water_intake = ?, energy_level = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Date,
		c.Weight,
		c.WeeklyWin,
		c.AvgSleep,
		c.AvgSteps,
		c.WaterIntake,
		c.EnergyLevel,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update check-in: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrCheckInNotFound
	}
	return nil
}

// Delete removes a check-in from storage.
func (r *checkInRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM checkins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete check-in: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrCheckInNotFound
	}
	return nil
}

func (r *checkInRepository) scanCheckIn(row scanner) (*domain.CheckIn, error) {
	var c domain.CheckIn
	var weeklyWin sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Owner,
		&c.Date,
		&c.Weight,
		&weeklyWin,
		&c.AvgSleep,
		&c.AvgSteps,
		&c.WaterIntake,
		&c.EnergyLevel,
	)
	if err != nil {
		return nil, err
	}

	if weeklyWin.Valid {
		c.WeeklyWin = weeklyWin.String
	}
	return &c, nil
}
