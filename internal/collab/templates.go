package collab

import (
	"fmt"
	"strings"
	"text/template"

	"musiccrib/pkg/models"
)

// Email is one rendered outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

var userConfirmationTmpl = template.Must(template.New("userConfirmation").Parse(
	`Hi {{.Request.RequesterName}},

Thanks for reaching out! We've received your collaboration request with {{.Request.TargetArtistName}} and the team is on it.

Here's what you sent us:

  Artist:  {{.Request.TargetArtistName}}
  Message: {{.Request.Message}}

We usually respond within 2-3 business days. Keep an ear out!

Stay creative,
The Music Crib Team
`))

var adminNotificationTmpl = template.Must(template.New("adminNotification").Parse(
	`A new collaboration request just came in.

  Request ID: {{.Request.ID}}
  Name:       {{.Request.RequesterName}}
  Email:      {{.Request.RequesterEmail}}
  Artist:     {{.Request.TargetArtistName}}
  Phone:      {{if .Request.Phone}}{{.Request.Phone}}{{else}}not provided{{end}}
  Submitted:  {{.Request.SubmittedAt}}

Message:
{{.Request.Message}}

Review it on the dashboard: {{.DashboardURL}}
`))

type templateData struct {
	Request      models.CollaborationRequest
	DashboardURL string
}

// UserConfirmationEmail renders the confirmation sent to the requester.
func UserConfirmationEmail(req models.CollaborationRequest) (Email, error) {
	var body strings.Builder
	if err := userConfirmationTmpl.Execute(&body, templateData{Request: req}); err != nil {
		return Email{}, fmt.Errorf("failed to render user confirmation: %w", err)
	}
	return Email{
		To:      req.RequesterEmail,
		Subject: fmt.Sprintf("🤝 Collaboration Request Received - %s", req.TargetArtistName),
		Body:    body.String(),
	}, nil
}

// AdminNotificationEmail renders the heads-up sent to the site operator.
func AdminNotificationEmail(req models.CollaborationRequest, adminEmail, dashboardURL string) (Email, error) {
	var body strings.Builder
	data := templateData{Request: req, DashboardURL: dashboardURL}
	if err := adminNotificationTmpl.Execute(&body, data); err != nil {
		return Email{}, fmt.Errorf("failed to render admin notification: %w", err)
	}
	return Email{
		To:      adminEmail,
		Subject: fmt.Sprintf("📬 New Collaboration Request: %s - %s", req.TargetArtistName, req.RequesterName),
		Body:    body.String(),
	}, nil
}
