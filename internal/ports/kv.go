package ports

import "context"

// Reserved keys in the durable side-channel. Values are plain scalar
// strings; time-valued slots hold unix milliseconds.
const (
	// KVActiveRun holds the template id of the run in flight.
	KVActiveRun = "active_run"

	// KVRestTarget holds the absolute instant the current rest period
	// expires.
	KVRestTarget = "rest_target"

	// KVSessionStart holds the instant the run in flight started.
	KVSessionStart = "session_start"
)

// DurableKV is a small durable key-value side-channel for state that
// must survive a process restart: the active-run marker, the run start
// instant and the rest-timer target. Readers must distinguish an absent
// key from an empty value.
type DurableKV interface {
	// Get retrieves a value. The second return reports presence.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes a value, overwriting any previous one.
	Set(ctx context.Context, key, value string) error

	// Clear removes a key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error
}
