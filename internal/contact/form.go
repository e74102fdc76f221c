package contact

import (
	"regexp"
	"strings"
	"time"

	"musiccrib/internal/notify"

	"github.com/sirupsen/logrus"
)

// Form is the general contact form. Unlike collaboration requests it is not
// persisted; a valid submission just acknowledges receipt.
type Form struct {
	Name    string
	Email   string
	Subject string
	Message string
}

var (
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lettersRegex = regexp.MustCompile(`^[\p{L}\s]+$`)
)

// ValidationError is one contact form failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the form in field order.
func Validate(f Form) []ValidationError {
	var errs []ValidationError

	name := strings.TrimSpace(f.Name)
	if name == "" {
		errs = append(errs, ValidationError{"name", "Name is required."})
	} else if !lettersRegex.MatchString(name) {
		errs = append(errs, ValidationError{"name", "Name must contain letters only."})
	}

	email := strings.TrimSpace(f.Email)
	if email == "" {
		errs = append(errs, ValidationError{"email", "Email is required."})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, ValidationError{"email", "Please enter a valid email."})
	}

	subject := strings.TrimSpace(f.Subject)
	if subject == "" {
		errs = append(errs, ValidationError{"subject", "Subject is required."})
	} else if !lettersRegex.MatchString(subject) {
		errs = append(errs, ValidationError{"subject", "Subject must contain letters only."})
	}

	if strings.TrimSpace(f.Message) == "" {
		errs = append(errs, ValidationError{"message", "Message is required."})
	}

	return errs
}

// Handler accepts contact form submissions.
type Handler struct {
	notifier *notify.Center
	logger   *logrus.Logger
}

// NewHandler creates a contact form handler.
func NewHandler(notifier *notify.Center, logger *logrus.Logger) *Handler {
	return &Handler{notifier: notifier, logger: logger}
}

// Submit validates and acknowledges a contact message. Only the first
// validation error is surfaced.
func (h *Handler) Submit(f Form) error {
	if errs := Validate(f); len(errs) > 0 {
		first := errs[0]
		h.logger.WithFields(logrus.Fields{
			"field":  first.Field,
			"errors": len(errs),
		}).Warn("Contact form validation failed")
		h.notifier.PublishWithDuration(notify.SeverityError, "❌ "+first.Message, 4*time.Second)
		return &first
	}

	h.logger.WithFields(logrus.Fields{
		"name":    strings.TrimSpace(f.Name),
		"subject": strings.TrimSpace(f.Subject),
	}).Info("Contact message received")
	h.notifier.Publish(notify.SeveritySuccess, "✅ Message sent — thanks!")
	return nil
}
