package playback

import (
	"fmt"
	"sync"
	"time"
)

// TimedHandle plays a source for a fixed duration and fires an end callback
// when the clock runs out. Pause freezes the remaining time; Resume restarts
// the timer with what is left.
type TimedHandle struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	startedAt time.Time
	timer     *time.Timer
	onEnd     func()
	stopped   bool
}

// NewTimedHandle creates a handle that runs for d and then calls onEnd from a
// timer goroutine. onEnd may be nil.
func NewTimedHandle(d time.Duration, onEnd func()) (*TimedHandle, error) {
	if d <= 0 {
		return nil, fmt.Errorf("non-positive duration: %v", d)
	}
	return &TimedHandle{
		duration:  d,
		remaining: d,
		onEnd:     onEnd,
	}, nil
}

// Start begins playback from the beginning.
func (h *TimedHandle) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return fmt.Errorf("handle already stopped")
	}
	h.remaining = h.duration
	h.arm()
	return nil
}

// Pause freezes the countdown.
func (h *TimedHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timer == nil {
		return fmt.Errorf("not playing")
	}
	h.timer.Stop()
	h.timer = nil
	elapsed := time.Since(h.startedAt)
	h.remaining -= elapsed
	if h.remaining < 0 {
		h.remaining = 0
	}
	return nil
}

// Resume continues the countdown from where Pause left it.
func (h *TimedHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return fmt.Errorf("handle already stopped")
	}
	if h.timer != nil {
		return nil
	}
	h.arm()
	return nil
}

// Stop cancels playback permanently; the end callback will not fire.
func (h *TimedHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.stopped = true
	return nil
}

// arm starts the countdown timer. Must be called with the lock held.
func (h *TimedHandle) arm() {
	h.startedAt = time.Now()
	h.timer = time.AfterFunc(h.remaining, func() {
		h.mu.Lock()
		if h.stopped {
			h.mu.Unlock()
			return
		}
		h.timer = nil
		h.remaining = 0
		h.stopped = true
		cb := h.onEnd
		h.mu.Unlock()
		if cb != nil {
			cb()
		}
	})
}
