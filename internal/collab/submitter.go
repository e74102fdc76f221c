package collab

import (
	"context"
	"regexp"
	"strings"
	"time"

	"musiccrib/internal/notify"
	"musiccrib/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Form is the collaboration request form as submitted.
type Form struct {
	YourName   string
	YourEmail  string
	RapperName string
	Message    string
	Phone      string
}

var (
	lettersRegex = regexp.MustCompile(`^[\p{L}\s]+$`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneStrip   = regexp.MustCompile(`[^0-9\-+() ]`)
)

// ValidationError is one collaboration form failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateForm checks the form in field order and returns all failures;
// callers surface only the first.
func ValidateForm(f Form) []ValidationError {
	var errs []ValidationError

	name := strings.TrimSpace(f.YourName)
	if name == "" {
		errs = append(errs, ValidationError{"yourName", "Your Name is required"})
	} else if !lettersRegex.MatchString(name) {
		errs = append(errs, ValidationError{"yourName", "Name must contain letters only"})
	}

	email := strings.TrimSpace(f.YourEmail)
	if email == "" {
		errs = append(errs, ValidationError{"yourEmail", "Your Email is required"})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, ValidationError{"yourEmail", "Please enter a valid email"})
	}

	if strings.TrimSpace(f.RapperName) == "" {
		errs = append(errs, ValidationError{"rapperName", "Artist name is required"})
	}

	if strings.TrimSpace(f.Message) == "" {
		errs = append(errs, ValidationError{"message", "Message is required"})
	}

	return errs
}

// SanitizePhone strips everything but digits, separators, and parentheses.
func SanitizePhone(phone string) string {
	return phoneStrip.ReplaceAllString(phone, "")
}

// Submitter validates collaboration forms and hands accepted requests to the
// datastore.
type Submitter struct {
	datastore Datastore
	notifier  *notify.Center
	logger    *logrus.Logger
}

// NewSubmitter creates a collaboration submitter.
func NewSubmitter(ds Datastore, notifier *notify.Center, logger *logrus.Logger) *Submitter {
	return &Submitter{
		datastore: ds,
		notifier:  notifier,
		logger:    logger,
	}
}

// Submit validates the form and appends the request. On validation failure
// only the first error is surfaced and nothing is stored. A datastore failure
// is reported without detail; the form contents stay with the caller for
// retry.
func (s *Submitter) Submit(ctx context.Context, f Form) (*models.CollaborationRequest, error) {
	if errs := ValidateForm(f); len(errs) > 0 {
		first := errs[0]
		s.logger.WithFields(logrus.Fields{
			"field":  first.Field,
			"errors": len(errs),
		}).Warn("Collaboration form validation failed")
		s.notifier.PublishWithDuration(notify.SeverityError, "❌ "+first.Message, 4*time.Second)
		return nil, &first
	}

	req := models.CollaborationRequest{
		ID:               uuid.New().String(),
		RequesterName:    strings.TrimSpace(f.YourName),
		RequesterEmail:   strings.TrimSpace(f.YourEmail),
		TargetArtistName: strings.TrimSpace(f.RapperName),
		Message:          strings.TrimSpace(f.Message),
		Phone:            SanitizePhone(strings.TrimSpace(f.Phone)),
		SubmittedAt:      time.Now().UTC().Format(time.RFC3339),
		Status:           "pending",
	}

	if err := s.datastore.Append(ctx, req); err != nil {
		s.logger.WithError(err).WithField("artist", req.TargetArtistName).Error("Failed to store collaboration request")
		s.notifier.PublishWithDuration(notify.SeverityError, "Failed to send request. Please try again later.", 4*time.Second)
		return nil, err
	}

	s.notifier.Publish(notify.SeveritySuccess,
		"🤝 Collaboration request sent to "+req.TargetArtistName+"! We'll be in touch.")
	return &req, nil
}
