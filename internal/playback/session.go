package playback

import (
	"fmt"
	"sync"

	"musiccrib/internal/notify"

	"github.com/sirupsen/logrus"
)

// Status is the playback state of a source.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Handle is one piece of playable audio. Start begins playback from the
// beginning; the handle reports natural end through the callback it was
// created with.
type Handle interface {
	Start() error
	Pause() error
	Resume() error
	Stop() error
}

// OpenFunc resolves a source ID (a beat preview or an uploaded track) to a
// fresh Handle. Starting always restarts from the beginning, so a new handle
// is opened per activation.
type OpenFunc func(sourceID string) (Handle, error)

// Session enforces the single invariant of playback: at most one source is
// playing at any time. Selecting a different source hard-preempts the
// current one; selecting the active source toggles play/pause.
type Session struct {
	mu       sync.Mutex
	open     OpenFunc
	notifier *notify.Center
	logger   *logrus.Logger

	activeID string
	status   Status
	handle   Handle
}

// NewSession creates a playback session.
func NewSession(open OpenFunc, notifier *notify.Center, logger *logrus.Logger) *Session {
	return &Session{
		open:     open,
		notifier: notifier,
		logger:   logger,
		status:   StatusIdle,
	}
}

// Toggle is the single play-control entry point for a source. The label is
// the display name used in notices.
//
// Same source: Playing pauses, Paused resumes. Different source: the current
// one is force-stopped (best effort) and the new one starts from the
// beginning. A start failure (e.g. the host refusing to play without a user
// gesture) is recoverable: the source stays idle and a notice is published.
func (s *Session) Toggle(sourceID, label string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == sourceID && s.handle != nil {
		switch s.status {
		case StatusPlaying:
			if err := s.handle.Pause(); err != nil {
				s.logger.WithError(err).WithField("source", sourceID).Warn("Pause failed")
			}
			s.status = StatusPaused
			s.notifier.Publish(notify.SeverityInfo, "⏸️ Paused")
			return s.status, nil

		case StatusPaused:
			if err := s.handle.Resume(); err != nil {
				s.notifier.Publish(notify.SeverityError, "Unable to play audio (user gesture required).")
				return s.status, fmt.Errorf("failed to resume %s: %w", sourceID, err)
			}
			s.status = StatusPlaying
			s.notifier.Publish(notify.SeverityInfo, "🎵 Resumed")
			return s.status, nil
		}
	}

	// A different source was selected: force the current one to idle first.
	s.stopActive()

	handle, err := s.open(sourceID)
	if err != nil {
		s.notifier.Publish(notify.SeverityError, fmt.Sprintf("No audio available for %s.", label))
		return StatusIdle, fmt.Errorf("failed to open source %s: %w", sourceID, err)
	}

	if err := handle.Start(); err != nil {
		s.notifier.Publish(notify.SeverityError, "Unable to play audio (user gesture required).")
		return StatusIdle, fmt.Errorf("failed to start source %s: %w", sourceID, err)
	}

	s.activeID = sourceID
	s.status = StatusPlaying
	s.handle = handle
	s.notifier.Publish(notify.SeverityInfo, fmt.Sprintf("🎵 Playing %s...", label))
	s.logger.WithField("source", sourceID).Info("Playback started")

	return s.status, nil
}

// Stop forces whatever is active back to idle.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopActive()
}

// stopActive stops the current handle best-effort; stop failures are
// swallowed. Must be called with the lock held.
func (s *Session) stopActive() {
	if s.handle == nil {
		return
	}
	if err := s.handle.Stop(); err != nil {
		s.logger.WithError(err).WithField("source", s.activeID).Debug("Stop failed, ignoring")
	}
	s.activeID = ""
	s.status = StatusIdle
	s.handle = nil
}

// Status returns the state of the given source.
func (s *Session) Status(sourceID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == sourceID {
		return s.status
	}
	return StatusIdle
}

// Active returns the currently active source ID and its status; the ID is
// empty when everything is idle.
func (s *Session) Active() (string, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.status
}

// SourceEnded transitions a source back to idle when its playback reaches
// natural end. Handles call this from their end-of-media callback.
func (s *Session) SourceEnded(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID != sourceID {
		return
	}
	s.activeID = ""
	s.status = StatusIdle
	s.handle = nil
	s.logger.WithField("source", sourceID).Debug("Playback ended")
}
