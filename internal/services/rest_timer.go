package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// RestTimer owns the between-set countdown. It stores the absolute
// expiry instant in the durable side-channel so the remaining time can
// be reconstructed after a restart, and runs a single ticker goroutine
// at a time: starting a new countdown replaces any countdown already
// running, it never stacks.
type RestTimer struct {
	kv  ports.DurableKV
	now func() time.Time

	mu     sync.Mutex
	target *time.Time
	stop   chan struct{}

	onTick   func(secondsLeft int)
	onExpire func()
}

// NewRestTimer creates a rest timer backed by the given side-channel.
func NewRestTimer(kv ports.DurableKV) *RestTimer {
	return &RestTimer{
		kv:  kv,
		now: time.Now,
	}
}

// SetCallbacks registers the tick and expiry observers. Must be called
// before Start or Resume.
func (t *RestTimer) SetCallbacks(onTick func(secondsLeft int), onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = onTick
	t.onExpire = onExpire
}

// Start arms a countdown of the given number of seconds, overwriting
// any countdown in flight.
func (t *RestTimer) Start(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return t.Clear(ctx)
	}

	target := t.now().Add(time.Duration(seconds) * time.Second)
	if err := t.kv.Set(ctx, ports.KVRestTarget, strconv.FormatInt(target.UnixMilli(), 10)); err != nil {
		return err
	}

	t.mu.Lock()
	t.stopLocked()
	t.target = &target
	t.stop = make(chan struct{})
	go t.run(t.stop)
	t.mu.Unlock()

	return nil
}

// Resume reconstructs a countdown from the durable slot. An absent slot
// is a no-op; an already-expired target is cleared without firing the
// expiry callback.
func (t *RestTimer) Resume(ctx context.Context) error {
	raw, ok, err := t.kv.Get(ctx, ports.KVRestTarget)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return t.kv.Clear(ctx, ports.KVRestTarget)
	}

	target := time.UnixMilli(ms)
	if domain.SecondsUntil(&target, t.now()) == 0 {
		return t.kv.Clear(ctx, ports.KVRestTarget)
	}

	t.mu.Lock()
	t.stopLocked()
	t.target = &target
	t.stop = make(chan struct{})
	go t.run(t.stop)
	t.mu.Unlock()

	return nil
}

// SecondsLeft reports the remaining countdown, 0 when idle.
func (t *RestTimer) SecondsLeft() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.SecondsUntil(t.target, t.now())
}

// Target returns the current expiry instant, nil when idle.
func (t *RestTimer) Target() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Clear stops the countdown and releases the durable slot.
func (t *RestTimer) Clear(ctx context.Context) error {
	t.mu.Lock()
	t.stopLocked()
	t.target = nil
	t.mu.Unlock()
	return t.kv.Clear(ctx, ports.KVRestTarget)
}

// Suspend stops the ticker but keeps the durable slot, so a later
// Resume picks the countdown back up.
func (t *RestTimer) Suspend() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

func (t *RestTimer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *RestTimer) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			left := domain.SecondsUntil(t.target, t.now())
			onTick, onExpire := t.onTick, t.onExpire
			expired := left == 0
			if expired {
				t.stopLocked()
				t.target = nil
			}
			t.mu.Unlock()

			if onTick != nil {
				onTick(left)
			}
			if expired {
				_ = t.kv.Clear(context.Background(), ports.KVRestTarget)
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}
