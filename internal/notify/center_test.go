package notify

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestCenter() *Center {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel) // Reduce noise in tests
	return NewCenter(logger)
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	c := newTestCenter()
	ch := c.Subscribe()

	c.Publish(SeveritySuccess, "Trap Vibe added to cart!")

	select {
	case notice := <-ch:
		if notice.Severity != SeveritySuccess {
			t.Errorf("severity = %q", notice.Severity)
		}
		if notice.Icon != "✅" {
			t.Errorf("icon = %q, want ✅", notice.Icon)
		}
		if notice.Duration != DefaultDuration {
			t.Errorf("duration = %v, want %v", notice.Duration, DefaultDuration)
		}
	case <-time.After(time.Second):
		t.Fatal("notice never delivered")
	}
}

func TestSeverityIcons(t *testing.T) {
	tests := []struct {
		severity Severity
		icon     string
	}{
		{SeveritySuccess, "✅"},
		{SeverityError, "⚠️"},
		{SeverityWarning, "⚠️"},
		{SeverityInfo, "ℹ️"},
	}

	c := newTestCenter()
	ch := c.Subscribe()

	for _, tt := range tests {
		c.Publish(tt.severity, "x")
		notice := <-ch
		if notice.Icon != tt.icon {
			t.Errorf("icon for %s = %q, want %q", tt.severity, notice.Icon, tt.icon)
		}
	}
}

func TestPublishWithDuration(t *testing.T) {
	c := newTestCenter()
	ch := c.Subscribe()

	c.PublishWithDuration(SeverityError, "❌ Full Name is required", 4*time.Second)
	notice := <-ch
	if notice.Duration != 4*time.Second {
		t.Errorf("duration = %v, want 4s", notice.Duration)
	}
}

func TestFullSubscriberIsDropped(t *testing.T) {
	c := newTestCenter()
	ch := c.Subscribe()

	// Fill the buffer and push one more; the abandoned channel must be
	// removed instead of blocking the publisher.
	for i := 0; i < 20; i++ {
		c.Publish(SeverityInfo, "flood")
	}

	// The channel was closed on removal; drain to the close
	open := true
	for open {
		select {
		case _, ok := <-ch:
			open = ok
		case <-time.After(time.Second):
			t.Fatal("channel never closed after overflow")
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	c := newTestCenter()
	ch := c.Subscribe()
	c.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}

	// Publishing after unsubscribe must not panic
	c.Publish(SeverityInfo, "nobody listening")
}
