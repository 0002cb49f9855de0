package ports

// Notifier defines the interface for desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// NotifyRestComplete fires when a rest period runs out.
	NotifyRestComplete(exercise string) error

	// NotifyWorkoutSaved fires once a completion record is persisted.
	NotifyWorkoutSaved(templateName string) error
}
