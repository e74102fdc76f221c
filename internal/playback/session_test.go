package playback

import (
	"fmt"
	"testing"

	"musiccrib/internal/notify"

	"github.com/sirupsen/logrus"
)

// fakeHandle records calls instead of playing anything.
type fakeHandle struct {
	started, paused, resumed, stopped int
	startErr                          error
}

func (h *fakeHandle) Start() error  { h.started++; return h.startErr }
func (h *fakeHandle) Pause() error  { h.paused++; return nil }
func (h *fakeHandle) Resume() error { h.resumed++; return nil }
func (h *fakeHandle) Stop() error   { h.stopped++; return nil }

func newTestSession(open OpenFunc) *Session {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	return NewSession(open, notify.NewCenter(logger), logger)
}

func TestToggleStartsPlayback(t *testing.T) {
	handle := &fakeHandle{}
	s := newTestSession(func(string) (Handle, error) { return handle, nil })

	status, err := s.Toggle("beat:Trap Vibe", "Trap Vibe")
	if err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if status != StatusPlaying {
		t.Errorf("status = %v, want playing", status)
	}
	if handle.started != 1 {
		t.Errorf("handle started %d times, want 1", handle.started)
	}
	if got := s.Status("beat:Trap Vibe"); got != StatusPlaying {
		t.Errorf("Status() = %v, want playing", got)
	}
	if got := s.Status("beat:Drill Flow"); got != StatusIdle {
		t.Errorf("other source status = %v, want idle", got)
	}
}

func TestTogglePauseResume(t *testing.T) {
	handle := &fakeHandle{}
	s := newTestSession(func(string) (Handle, error) { return handle, nil })

	s.Toggle("beat:Trap Vibe", "Trap Vibe")

	status, err := s.Toggle("beat:Trap Vibe", "Trap Vibe")
	if err != nil {
		t.Fatalf("pause toggle error: %v", err)
	}
	if status != StatusPaused || handle.paused != 1 {
		t.Errorf("status = %v paused = %d, want paused/1", status, handle.paused)
	}

	status, err = s.Toggle("beat:Trap Vibe", "Trap Vibe")
	if err != nil {
		t.Fatalf("resume toggle error: %v", err)
	}
	if status != StatusPlaying || handle.resumed != 1 {
		t.Errorf("status = %v resumed = %d, want playing/1", status, handle.resumed)
	}
	// Toggling never reopens the same source
	if handle.started != 1 {
		t.Errorf("handle restarted, started = %d", handle.started)
	}
}

func TestTogglePreemptsOtherSource(t *testing.T) {
	handles := map[string]*fakeHandle{
		"a": {},
		"b": {},
	}
	s := newTestSession(func(id string) (Handle, error) { return handles[id], nil })

	s.Toggle("a", "A")
	status, err := s.Toggle("b", "B")
	if err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}

	if status != StatusPlaying {
		t.Errorf("status = %v, want playing", status)
	}
	if handles["a"].stopped != 1 {
		t.Errorf("previous source stopped %d times, want 1", handles["a"].stopped)
	}
	if s.Status("a") != StatusIdle {
		t.Errorf("preempted source not idle")
	}
	if s.Status("b") != StatusPlaying {
		t.Errorf("new source not playing")
	}
}

func TestPreemptionIgnoresStopFailure(t *testing.T) {
	bad := &fakeHandle{}
	s := newTestSession(func(id string) (Handle, error) {
		if id == "bad" {
			return &failingStopHandle{}, nil
		}
		return bad, nil
	})

	s.Toggle("bad", "Bad")
	status, err := s.Toggle("good", "Good")
	if err != nil {
		t.Fatalf("preemption failed on stop error: %v", err)
	}
	if status != StatusPlaying {
		t.Errorf("status = %v, want playing", status)
	}
}

type failingStopHandle struct{ fakeHandle }

func (h *failingStopHandle) Stop() error { return fmt.Errorf("device busy") }

func TestStartFailureStaysIdle(t *testing.T) {
	s := newTestSession(func(string) (Handle, error) {
		return &fakeHandle{startErr: fmt.Errorf("user gesture required")}, nil
	})

	status, err := s.Toggle("beat:Trap Vibe", "Trap Vibe")
	if err == nil {
		t.Fatal("expected start error")
	}
	if status != StatusIdle {
		t.Errorf("status = %v, want idle", status)
	}
	if id, _ := s.Active(); id != "" {
		t.Errorf("active source = %q after failed start", id)
	}

	// The session remains usable afterwards
	ok := &fakeHandle{}
	s2 := newTestSession(func(string) (Handle, error) { return ok, nil })
	if _, err := s2.Toggle("beat:Trap Vibe", "Trap Vibe"); err != nil {
		t.Errorf("session unusable after failure: %v", err)
	}
}

func TestOpenFailureStaysIdle(t *testing.T) {
	s := newTestSession(func(string) (Handle, error) {
		return nil, fmt.Errorf("no sample on disk")
	})

	if status, err := s.Toggle("beat:Ghost", "Ghost"); err == nil || status != StatusIdle {
		t.Errorf("Toggle() = %v, %v; want idle with error", status, err)
	}
}

func TestSourceEnded(t *testing.T) {
	handle := &fakeHandle{}
	s := newTestSession(func(string) (Handle, error) { return handle, nil })

	s.Toggle("a", "A")
	s.SourceEnded("a")

	if s.Status("a") != StatusIdle {
		t.Errorf("source not idle after natural end")
	}
	if handle.stopped != 0 {
		t.Errorf("natural end called Stop %d times", handle.stopped)
	}

	// End of a stale source leaves the active one alone
	s.Toggle("a", "A")
	s.SourceEnded("b")
	if s.Status("a") != StatusPlaying {
		t.Errorf("stale end reset the active source")
	}
}
