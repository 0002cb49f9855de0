package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/mfontan/ironlog/internal/ports"
)

// fakeKV is an in-memory DurableKV for timer tests.
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKV) Clear(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func TestRestTimer_StartStoresAbsoluteTarget(t *testing.T) {
	kv := newFakeKV()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	timer := NewRestTimer(kv)
	timer.now = func() time.Time { return now }
	defer timer.Suspend()

	ctx := context.Background()
	if err := timer.Start(ctx, 60); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if got := timer.SecondsLeft(); got != 60 {
		t.Errorf("SecondsLeft() = %d, want 60", got)
	}

	raw, ok, _ := kv.Get(ctx, ports.KVRestTarget)
	if !ok {
		t.Fatal("rest target not persisted")
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		t.Fatalf("rest target not a unix-milli value: %q", raw)
	}
	if want := now.Add(60 * time.Second).UnixMilli(); ms != want {
		t.Errorf("persisted target = %d, want %d", ms, want)
	}
}

func TestRestTimer_StartOverwrites(t *testing.T) {
	kv := newFakeKV()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	timer := NewRestTimer(kv)
	timer.now = func() time.Time { return now }
	defer timer.Suspend()

	ctx := context.Background()
	if err := timer.Start(ctx, 90); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// 30 seconds in, completing another set re-arms the full period.
	now = now.Add(30 * time.Second)
	if err := timer.Start(ctx, 90); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if got := timer.SecondsLeft(); got != 90 {
		t.Errorf("SecondsLeft() after re-arm = %d, want 90", got)
	}
}

func TestRestTimer_ResumeFromStore(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("mid countdown", func(t *testing.T) {
		kv := newFakeKV()
		target := start.Add(60 * time.Second)
		_ = kv.Set(ctx, ports.KVRestTarget, strconv.FormatInt(target.UnixMilli(), 10))

		timer := NewRestTimer(kv)
		timer.now = func() time.Time { return start.Add(25 * time.Second) }
		defer timer.Suspend()

		if err := timer.Resume(ctx); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if got := timer.SecondsLeft(); got != 35 {
			t.Errorf("SecondsLeft() = %d, want 35", got)
		}
	})

	t.Run("already expired clears the slot", func(t *testing.T) {
		kv := newFakeKV()
		target := start.Add(60 * time.Second)
		_ = kv.Set(ctx, ports.KVRestTarget, strconv.FormatInt(target.UnixMilli(), 10))

		timer := NewRestTimer(kv)
		timer.now = func() time.Time { return start.Add(70 * time.Second) }

		if err := timer.Resume(ctx); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if got := timer.SecondsLeft(); got != 0 {
			t.Errorf("SecondsLeft() = %d, want 0", got)
		}
		if kv.has(ports.KVRestTarget) {
			t.Error("expired target should be cleared")
		}
	})

	t.Run("absent slot is a no-op", func(t *testing.T) {
		kv := newFakeKV()
		timer := NewRestTimer(kv)
		timer.now = func() time.Time { return start }

		if err := timer.Resume(ctx); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if got := timer.SecondsLeft(); got != 0 {
			t.Errorf("SecondsLeft() = %d, want 0", got)
		}
	})

	t.Run("corrupt slot is cleared", func(t *testing.T) {
		kv := newFakeKV()
		_ = kv.Set(ctx, ports.KVRestTarget, "not-a-number")

		timer := NewRestTimer(kv)
		timer.now = func() time.Time { return start }

		if err := timer.Resume(ctx); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if kv.has(ports.KVRestTarget) {
			t.Error("corrupt target should be cleared")
		}
	})
}

func TestRestTimer_ClearAndSuspend(t *testing.T) {
	kv := newFakeKV()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	timer := NewRestTimer(kv)
	timer.now = func() time.Time { return now }

	_ = timer.Start(ctx, 60)

	t.Run("suspend keeps the slot", func(t *testing.T) {
		timer.Suspend()
		if !kv.has(ports.KVRestTarget) {
			t.Error("Suspend() should keep the durable slot")
		}
	})

	t.Run("clear releases everything", func(t *testing.T) {
		if err := timer.Clear(ctx); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if kv.has(ports.KVRestTarget) {
			t.Error("Clear() should release the durable slot")
		}
		if got := timer.SecondsLeft(); got != 0 {
			t.Errorf("SecondsLeft() = %d, want 0", got)
		}
	})

	t.Run("zero seconds clears instead of arming", func(t *testing.T) {
		if err := timer.Start(ctx, 0); err != nil {
			t.Fatalf("Start(0) error = %v", err)
		}
		if got := timer.SecondsLeft(); got != 0 {
			t.Errorf("SecondsLeft() = %d, want 0", got)
		}
	})
}
