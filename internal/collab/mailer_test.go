package collab

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"musiccrib/internal/config"
	"musiccrib/pkg/models"
)

// fakeMailer captures outbound emails.
type fakeMailer struct {
	mu   sync.Mutex
	sent []Email
}

func (f *fakeMailer) Send(_ context.Context, email Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeMailer) emails() []Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Email, len(f.sent))
	copy(out, f.sent)
	return out
}

func testRequest() models.CollaborationRequest {
	return models.CollaborationRequest{
		ID:               "req-123",
		RequesterName:    "Jordan Blake",
		RequesterEmail:   "jordan@example.com",
		TargetArtistName: "MC Flow",
		Message:          "Let's make something.",
		Phone:            "5551234567",
		SubmittedAt:      "2026-08-29T12:00:00Z",
		Status:           "pending",
	}
}

func TestMailTriggerSendsBothEmails(t *testing.T) {
	mailer := &fakeMailer{}
	cfg := config.MailConfig{
		AdminEmail:   "admin@musiccrib.example",
		DashboardURL: "https://musiccrib.example/dashboard.html",
	}

	trigger := NewMailTrigger(mailer, cfg, quietLogger())
	trigger(context.Background(), testRequest())

	sent := mailer.emails()
	if len(sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sent))
	}

	confirmation, notification := sent[0], sent[1]

	if confirmation.To != "jordan@example.com" {
		t.Errorf("confirmation recipient = %q", confirmation.To)
	}
	if confirmation.Subject != "🤝 Collaboration Request Received - MC Flow" {
		t.Errorf("confirmation subject = %q", confirmation.Subject)
	}
	if !strings.Contains(confirmation.Body, "Jordan Blake") {
		t.Errorf("confirmation does not greet the requester:\n%s", confirmation.Body)
	}

	if notification.To != "admin@musiccrib.example" {
		t.Errorf("notification recipient = %q", notification.To)
	}
	if notification.Subject != "📬 New Collaboration Request: MC Flow - Jordan Blake" {
		t.Errorf("notification subject = %q", notification.Subject)
	}
	if !strings.Contains(notification.Body, cfg.DashboardURL) {
		t.Errorf("notification missing dashboard link:\n%s", notification.Body)
	}
	if !strings.Contains(notification.Body, "req-123") {
		t.Errorf("notification missing request ID:\n%s", notification.Body)
	}
}

func TestAdminEmailWithoutPhone(t *testing.T) {
	req := testRequest()
	req.Phone = ""

	email, err := AdminNotificationEmail(req, "admin@musiccrib.example", "https://x.example")
	if err != nil {
		t.Fatalf("AdminNotificationEmail() error: %v", err)
	}
	if !strings.Contains(email.Body, "not provided") {
		t.Errorf("missing phone placeholder:\n%s", email.Body)
	}
}

func TestDatastoreFiresCreateHooks(t *testing.T) {
	ds, err := NewSQLiteDatastore(t.TempDir()+"/collab.db", quietLogger())
	if err != nil {
		t.Fatalf("NewSQLiteDatastore() error: %v", err)
	}
	defer ds.Close()

	fired := make(chan models.CollaborationRequest, 1)
	ds.OnCreate(func(_ context.Context, req models.CollaborationRequest) {
		fired <- req
	})

	if err := ds.Append(context.Background(), testRequest()); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	select {
	case req := <-fired:
		if req.ID != "req-123" {
			t.Errorf("hook saw request %q", req.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("create hook never fired")
	}

	stored, err := ds.Pending(context.Background())
	if err != nil {
		t.Fatalf("Pending() error: %v", err)
	}
	if len(stored) != 1 || stored[0].TargetArtistName != "MC Flow" {
		t.Errorf("stored requests = %+v", stored)
	}
}
