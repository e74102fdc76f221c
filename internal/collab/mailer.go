package collab

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"musiccrib/internal/config"
	"musiccrib/pkg/models"

	"github.com/sirupsen/logrus"
)

// Mailer delivers one rendered email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SMTPMailer sends through a plain-auth SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	sender   string
	logger   *logrus.Logger
}

// NewSMTPMailer configures the relay from the mail config; the password
// comes from the environment, never the config file.
func NewSMTPMailer(cfg config.MailConfig, password string, logger *logrus.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.Username,
		password: password,
		sender:   cfg.SenderEmail,
		logger:   logger,
	}
}

// Send delivers the email over SMTP.
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.Body)

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.sender, []string{email.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", email.To, err)
	}

	m.logger.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("Email sent")
	return nil
}

// NewMailTrigger returns the datastore create hook that fans out the two
// notification emails for a stored request. Delivery failures are logged and
// never surfaced to the requester; the stored request is the source of truth.
func NewMailTrigger(mailer Mailer, cfg config.MailConfig, logger *logrus.Logger) CreateHook {
	return func(ctx context.Context, req models.CollaborationRequest) {
		confirmation, err := UserConfirmationEmail(req)
		if err != nil {
			logger.WithError(err).WithField("id", req.ID).Error("Failed to render confirmation email")
		} else if err := mailer.Send(ctx, confirmation); err != nil {
			logger.WithError(err).WithField("id", req.ID).Error("Failed to send confirmation email")
		}

		notification, err := AdminNotificationEmail(req, cfg.AdminEmail, cfg.DashboardURL)
		if err != nil {
			logger.WithError(err).WithField("id", req.ID).Error("Failed to render admin email")
			return
		}
		if err := mailer.Send(ctx, notification); err != nil {
			logger.WithError(err).WithField("id", req.ID).Error("Failed to send admin email")
		}
	}
}
