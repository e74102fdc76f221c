package playback

import (
	"testing"
	"time"
)

func TestTimedHandleRejectsBadDuration(t *testing.T) {
	if _, err := NewTimedHandle(0, nil); err == nil {
		t.Error("zero duration accepted")
	}
	if _, err := NewTimedHandle(-time.Second, nil); err == nil {
		t.Error("negative duration accepted")
	}
}

func TestTimedHandleFiresOnEnd(t *testing.T) {
	ended := make(chan struct{})
	h, err := NewTimedHandle(20*time.Millisecond, func() { close(ended) })
	if err != nil {
		t.Fatalf("NewTimedHandle() error: %v", err)
	}

	if err := h.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("end callback never fired")
	}
}

func TestTimedHandleStopCancelsEnd(t *testing.T) {
	ended := make(chan struct{})
	h, _ := NewTimedHandle(20*time.Millisecond, func() { close(ended) })

	h.Start()
	if err := h.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	select {
	case <-ended:
		t.Fatal("end callback fired after stop")
	case <-time.After(100 * time.Millisecond):
	}

	// A stopped handle cannot restart
	if err := h.Start(); err == nil {
		t.Error("Start() succeeded after Stop()")
	}
}

func TestTimedHandlePauseHoldsClock(t *testing.T) {
	ended := make(chan struct{})
	h, _ := NewTimedHandle(50*time.Millisecond, func() { close(ended) })

	h.Start()
	if err := h.Pause(); err != nil {
		t.Fatalf("Pause() error: %v", err)
	}

	// Paused well past the original duration: must not end
	select {
	case <-ended:
		t.Fatal("end callback fired while paused")
	case <-time.After(150 * time.Millisecond):
	}

	if err := h.Resume(); err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("end callback never fired after resume")
	}
}

func TestTimedHandlePauseWithoutStart(t *testing.T) {
	h, _ := NewTimedHandle(time.Second, nil)
	if err := h.Pause(); err == nil {
		t.Error("Pause() succeeded before Start()")
	}
}
