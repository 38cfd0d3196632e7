package services

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/storage"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingQueue keeps enqueued tasks in memory.
type recordingQueue struct {
	mu    sync.Mutex
	tasks []*SubmissionTask
}

func (q *recordingQueue) Enqueue(task *SubmissionTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingQueue) IsAsync() bool { return false }
func (q *recordingQueue) Close() error  { return nil }

func (q *recordingQueue) forms() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.tasks))
	for _, t := range q.tasks {
		out = append(out, t.Form)
	}
	return out
}

func newRecordingNotifier(t *testing.T) (*NotificationService, *recordingQueue) {
	t.Helper()
	q := &recordingQueue{}
	return NewNotificationService(nil, nil, q), q
}

func TestContactService_DuplicateEmailIsRejected(t *testing.T) {
	db := newTestDB(t)
	notifier, queue := newRecordingNotifier(t)
	svc := NewContactService(db, notifier)

	payload := map[string]interface{}{
		"name":    "Jane Doe",
		"email":   "Jane@Example.com",
		"message": "Please call me back",
	}
	first, err := svc.Submit(payload)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "jane@example.com", first.Email)
	assert.Equal(t, "new", first.Status)

	payload["email"] = "jane@example.com"
	_, err = svc.Submit(payload)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))
	assert.Contains(t, err.Error(), "already been submitted")

	var count int64
	db.Model(&models.Contact{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []string{"contact"}, queue.forms())

	// once the first contact is deleted the address may write again
	require.NoError(t, svc.Delete(first.ID))
	_, err = svc.Submit(payload)
	require.NoError(t, err)
}

func TestContactService_Validation(t *testing.T) {
	svc := NewContactService(newTestDB(t), nil)

	_, err := svc.Submit(map[string]interface{}{"name": "A", "email": "not-an-email", "message": "hi"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))
	assert.Equal(t, "email must be a valid email address", err.Error())

	_, err = svc.Submit(map[string]interface{}{"name": "A", "email": "a@b.co"})
	assert.Equal(t, "message is required", err.Error())
}

func TestContactService_AdminUpdateOnlyTouchesWorkflowFields(t *testing.T) {
	svc := NewContactService(newTestDB(t), nil)
	contact, err := svc.Submit(map[string]interface{}{"name": "A", "email": "a@b.co", "message": "hi"})
	require.NoError(t, err)

	updated, err := svc.Update(contact.ID, map[string]interface{}{
		"status":  "replied",
		"notes":   "called back",
		"message": "rewritten",
	}, WriteMeta{})
	require.NoError(t, err)
	assert.Equal(t, "replied", updated.Status)
	assert.Equal(t, "called back", updated.Notes)
	assert.Equal(t, "hi", updated.Message)

	_, err = svc.Update(contact.ID, map[string]interface{}{"status": "archived"}, WriteMeta{})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))
}

func TestBookingService_RejectsPastDates(t *testing.T) {
	svc := NewBookingService(newTestDB(t), nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC) }

	base := func(date string) map[string]interface{} {
		return map[string]interface{}{"name": "Clinic", "email": "ops@clinic.test", "preferredDate": date}
	}

	_, err := svc.Submit(base("2025-06-09"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	_, err = svc.Submit(base("06/12/2025"))
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	booking, err := svc.Submit(base("2025-06-10"))
	require.NoError(t, err)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, "2025-06-10", booking.PreferredDate)
}

func newTestMediaService(t *testing.T, db *gorm.DB) *MediaService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)
	return NewMediaService(db, store, config.UploadConfig{MaxSizeMB: 1})
}

func TestResumeService_Submit(t *testing.T) {
	db := newTestDB(t)
	careers := NewCareerService(db)
	media := newTestMediaService(t, db)
	notifier, queue := newRecordingNotifier(t)
	svc := NewResumeService(db, media, notifier)

	open, err := careers.Create(map[string]interface{}{"title": "Medical Coder"}, WriteMeta{})
	require.NoError(t, err)
	closed, err := careers.Create(map[string]interface{}{"title": "Biller", "status": "closed"}, WriteMeta{})
	require.NoError(t, err)

	pdf := func() *UploadInput {
		body := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
		return &UploadInput{Filename: "cv.pdf", Size: int64(len(body)), Body: bytes.NewReader(body)}
	}
	fields := func(careerID uint) map[string]interface{} {
		return map[string]interface{}{"name": "Sam", "email": "sam@example.com", "careerId": careerID}
	}

	resume, err := svc.Submit(context.Background(), fields(open.ID), pdf())
	require.NoError(t, err)
	assert.Equal(t, "Medical Coder", resume.Position)
	assert.NotEmpty(t, resume.ResumePublicID)
	assert.Contains(t, resume.ResumeURL, "/uploads/")

	_, err = svc.Submit(context.Background(), fields(closed.ID), pdf())
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	_, err = svc.Submit(context.Background(), fields(open.ID), nil)
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	png := []byte("\x89PNG\r\n\x1a\n0000")
	_, err = svc.Submit(context.Background(), fields(open.ID),
		&UploadInput{Filename: "cv.png", Size: int64(len(png)), Body: bytes.NewReader(png)})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	assert.Equal(t, []string{"resume"}, queue.forms())
}

func TestCheckBookingDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		date    string
		message string
	}{
		{"2025-03-10", ""},
		{"2025-04-01", ""},
		{"2025-03-09", "preferredDate cannot be in the past"},
		{"", "preferredDate must be a date (YYYY-MM-DD)"},
		{"10/03/2025", "preferredDate must be a date (YYYY-MM-DD)"},
	}
	for _, tt := range tests {
		err := checkBookingDate(tt.date, now)
		if tt.message == "" {
			assert.NoError(t, err, tt.date)
			continue
		}
		require.Error(t, err, tt.date)
		assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))
		assert.Equal(t, tt.message, err.Error())
	}
}
