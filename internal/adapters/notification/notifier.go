// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/mfontan/ironlog/internal/config"
	"github.com/mfontan/ironlog/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg *config.NotificationConfig
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if n.cfg == nil || !n.cfg.Enabled {
		return nil
	}

	return beeep.Notify(title, message, "")
}

// NotifyRestComplete displays a notification when a rest period runs out.
func (n *Notifier) NotifyRestComplete(exercise string) error {
	title := "⏱ Rest Over!"
	message := "Back to it."
	if exercise != "" {
		message = fmt.Sprintf("Back to it: %s.", exercise)
	}
	return n.Notify(title, message)
}

// NotifyWorkoutSaved displays a notification once a workout is persisted.
func (n *Notifier) NotifyWorkoutSaved(templateName string) error {
	title := "💪 Workout Saved!"
	message := fmt.Sprintf("Nice work. %s is in the books.", templateName)
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
