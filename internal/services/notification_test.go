package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	enabled bool
	err     error
	sent    []fakeMail
}

type fakeMail struct {
	to      []string
	subject string
	body    string
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) Send(to []string, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, fakeMail{to: to, subject: subject, body: body})
	return nil
}

func newNotificationFixture(t *testing.T, mailer Mailer, contactEmail string) *NotificationService {
	t.Helper()
	settings := NewSettingsService(newTestDB(t), NewTTLSettingsCache(time.Minute))
	if contactEmail != "" {
		_, err := settings.Update(map[string]interface{}{"siteName": "Acme Billing", "contactEmail": contactEmail})
		require.NoError(t, err)
	}
	return NewNotificationService(settings, mailer, NewSyncQueue())
}

func TestNotificationService_ProcessSendsToContactEmail(t *testing.T) {
	mailer := &fakeMailer{enabled: true}
	svc := newNotificationFixture(t, mailer, "Office@Acme.test")

	err := svc.Process(context.Background(), &SubmissionTask{
		Form:   "contact",
		ID:     12,
		Name:   "Jane <script>",
		Email:  "jane@example.com",
		Fields: map[string]string{"Message": "Need help & advice", "Phone": ""},
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	mail := mailer.sent[0]
	assert.Equal(t, []string{"office@acme.test"}, mail.to)
	assert.Equal(t, "[Acme Billing] New contact message from Jane <script>", mail.subject)
	assert.Contains(t, mail.body, "Jane &lt;script&gt;")
	assert.Contains(t, mail.body, "Need help &amp; advice")
	assert.NotContains(t, mail.body, ">Phone<", "empty fields are left out")
	assert.Contains(t, mail.body, "Submission #12")
}

func TestNotificationService_ProcessSkips(t *testing.T) {
	disabled := &fakeMailer{enabled: false}
	svc := newNotificationFixture(t, disabled, "office@acme.test")
	require.NoError(t, svc.Process(context.Background(), &SubmissionTask{Form: "lead"}))
	assert.Empty(t, disabled.sent)

	noAddress := &fakeMailer{enabled: true}
	svc = newNotificationFixture(t, noAddress, "")
	require.NoError(t, svc.Process(context.Background(), &SubmissionTask{Form: "lead"}))
	assert.Empty(t, noAddress.sent)
}

func TestNotificationService_ProcessReportsMailerError(t *testing.T) {
	mailer := &fakeMailer{enabled: true, err: errors.New("smtp down")}
	svc := newNotificationFixture(t, mailer, "office@acme.test")

	err := svc.Process(context.Background(), &SubmissionTask{Form: "booking", Name: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestRenderSubmission_UnknownForm(t *testing.T) {
	subject, body := renderSubmission("Site", &SubmissionTask{Form: "other", Name: "N"})
	assert.True(t, strings.HasPrefix(subject, "[Site] New submission from N"))
	assert.Contains(t, body, "<table")
}

func TestEmailService_Disabled(t *testing.T) {
	svc := NewEmailService(config.SMTPConfig{Enabled: false, Host: "smtp.example.com"})
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.Send([]string{"a@b.c"}, "s", "b"))
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@example.com", []string{"a@example.com", "b@example.com"}, "Hello", "<p>hi</p>")
	assert.Contains(t, msg, "From: from@example.com\r\n")
	assert.Contains(t, msg, "To: a@example.com,b@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.True(t, strings.HasSuffix(msg, "<p>hi</p>"))
}
