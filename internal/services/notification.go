package services

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/Adeel3330/agile-next-sub002/internal/metrics"
	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
)

var formTitles = map[string]string{
	"contact":               "New contact message",
	"booking":               "New consultation booking",
	"resume":                "New job application",
	"lead":                  "New lead",
	"affiliate_application": "New affiliate application",
}

// NotificationService emails the site's contact address about new submissions.
type NotificationService struct {
	settings *SettingsService
	mailer   Mailer
	queue    TaskQueue
}

func NewNotificationService(settings *SettingsService, mailer Mailer, queue TaskQueue) *NotificationService {
	return &NotificationService{settings: settings, mailer: mailer, queue: queue}
}

// Notify enqueues a submission notification. Queue failures are logged and
// never fail the submission itself.
func (s *NotificationService) Notify(task *SubmissionTask) {
	metrics.FormSubmissionsTotal.WithLabelValues(task.Form).Inc()
	if s == nil || s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Str("form", task.Form).Uint("id", task.ID).Msg("[Notification] enqueue failed")
	}
}

// Process delivers one task. It is the queue processor for both queue modes.
func (s *NotificationService) Process(ctx context.Context, task *SubmissionTask) error {
	if !s.mailer.Enabled() {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	setting, err := s.settings.Get()
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return err
	}
	if setting.ContactEmail == "" {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	subject, body := renderSubmission(setting.SiteName, task)
	if err := s.mailer.Send([]string{setting.ContactEmail}, subject, body); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	return nil
}

func renderSubmission(siteName string, task *SubmissionTask) (string, string) {
	title, ok := formTitles[task.Form]
	if !ok {
		title = "New submission"
	}
	subject := fmt.Sprintf("[%s] %s from %s", siteName, title, task.Name)

	rows := []struct{ label, value string }{
		{"Name", task.Name},
		{"Email", task.Email},
	}
	keys := make([]string, 0, len(task.Fields))
	for k := range task.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if task.Fields[k] != "" {
			rows = append(rows, struct{ label, value string }{k, task.Fields[k]})
		}
	}

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>%s</h2>", html.EscapeString(title)))
	sb.WriteString("<table style=\"border-collapse: collapse;\">")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("<tr><td style=\"padding: 8px; border: 1px solid #ddd; font-weight: bold;\">%s</td><td style=\"padding: 8px; border: 1px solid #ddd; white-space: pre-wrap;\">%s</td></tr>",
			html.EscapeString(r.label), html.EscapeString(r.value)))
	}
	sb.WriteString("</table>")
	sb.WriteString(fmt.Sprintf("<p style=\"color: #888; font-size: 12px;\">Submission #%d</p>", task.ID))
	sb.WriteString("</body></html>")
	return subject, sb.String()
}
