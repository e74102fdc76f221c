package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Severity classifies a user-facing notice and selects its icon.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// icons maps severities to the glyph shown next to the notice text.
var icons = map[Severity]string{
	SeveritySuccess: "✅",
	SeverityError:   "⚠️",
	SeverityInfo:    "ℹ️",
	SeverityWarning: "⚠️",
}

// DefaultDuration is how long a notice stays visible before fading.
const DefaultDuration = 3 * time.Second

// Notice is a transient, auto-dismissing user notification.
type Notice struct {
	Severity Severity      `json:"severity"`
	Icon     string        `json:"icon"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}

// Center fans notices out to subscribers. Notices never terminate the
// session; a full or abandoned subscriber channel is dropped rather than
// blocked on.
type Center struct {
	mu        sync.Mutex
	listeners []chan Notice
	logger    *logrus.Logger
}

// NewCenter creates a notification center.
func NewCenter(logger *logrus.Logger) *Center {
	return &Center{
		listeners: make([]chan Notice, 0),
		logger:    logger,
	}
}

// Publish emits a notice with the default display duration.
func (c *Center) Publish(severity Severity, message string) {
	c.PublishWithDuration(severity, message, DefaultDuration)
}

// PublishWithDuration emits a notice with an explicit display duration.
func (c *Center) PublishWithDuration(severity Severity, message string, duration time.Duration) {
	icon, ok := icons[severity]
	if !ok {
		icon = icons[SeverityInfo]
	}

	notice := Notice{
		Severity: severity,
		Icon:     icon,
		Message:  message,
		Duration: duration,
		At:       time.Now(),
	}

	entry := c.logger.WithFields(logrus.Fields{
		"severity": severity,
		"message":  message,
	})
	switch severity {
	case SeverityError, SeverityWarning:
		entry.Warn("User notice")
	default:
		entry.Info("User notice")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(c.listeners); i++ {
		select {
		case c.listeners[i] <- notice:
			// Delivered
		default:
			// Channel is full or abandoned, remove it
			close(c.listeners[i])
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			i--
		}
	}
}

// Subscribe adds a listener for notices.
func (c *Center) Subscribe() <-chan Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Notice, 16) // Buffered channel to prevent blocking
	c.listeners = append(c.listeners, ch)
	return ch
}

// Unsubscribe removes a listener (call this when done to prevent memory leaks).
func (c *Center) Unsubscribe(ch <-chan Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, listener := range c.listeners {
		if listener == ch {
			close(listener)
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			break
		}
	}
}
