package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/domain/user"
	"github.com/huntboard/huntboard/pkg/logger"
)

// WebhookEmailSender posts reminder payloads to an email delivery webhook.
type WebhookEmailSender struct {
	client   *http.Client
	endpoint *url.URL
	apiKey   string
	log      *logger.Logger
}

// NewWebhookEmailSender constructs a sender for the given webhook endpoint.
func NewWebhookEmailSender(client *http.Client, endpoint, apiKey string, log *logger.Logger) (*WebhookEmailSender, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("email webhook endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse email webhook endpoint: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("email-webhook")
	}
	return &WebhookEmailSender{
		client:   client,
		endpoint: parsed,
		apiKey:   strings.TrimSpace(apiKey),
		log:      log,
	}, nil
}

func (w *WebhookEmailSender) SendAppointmentReminder(ctx context.Context, to user.User, app *application.Application, appt application.Appointment) error {
	payload := struct {
		To          string    `json:"to"`
		DisplayName string    `json:"display_name"`
		Subject     string    `json:"subject"`
		CompanyName string    `json:"company_name"`
		Role        string    `json:"role"`
		Description string    `json:"description"`
		StartUTC    time.Time `json:"start_utc"`
		EndUTC      time.Time `json:"end_utc"`
	}{
		To:          to.Email,
		DisplayName: to.DisplayName,
		Subject:     fmt.Sprintf("Upcoming appointment: %s", app.CompanyName),
		CompanyName: app.CompanyName,
		Role:        app.Role,
		Description: appt.Description,
		StartUTC:    appt.StartDateTimeUTC,
		EndUTC:      appt.EndDateTimeUTC,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}

// LogEmailSender records reminders to the log instead of delivering them.
// Used when no webhook endpoint is configured.
type LogEmailSender struct {
	log *logger.Logger
}

// NewLogEmailSender constructs a log-only sender.
func NewLogEmailSender(log *logger.Logger) *LogEmailSender {
	if log == nil {
		log = logger.NewDefault("email-log")
	}
	return &LogEmailSender{log: log}
}

func (l *LogEmailSender) SendAppointmentReminder(_ context.Context, to user.User, app *application.Application, appt application.Appointment) error {
	l.log.WithField("to", to.Email).
		WithField("application_id", app.ID).
		WithField("appointment_id", appt.ID).
		Infof("appointment reminder for %s at %s", app.CompanyName, appt.StartDateTimeUTC.Format(time.RFC3339))
	return nil
}

var _ EmailSender = (*WebhookEmailSender)(nil)
var _ EmailSender = (*LogEmailSender)(nil)
