package services

import (
	"context"
	"errors"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var (
	contactSubmitMapper = schema.New(
		schema.Text("name", "", "max=100").Req(),
		schema.Email("email", "").Req(),
		schema.Phone("phone", ""),
		schema.Text("subject", "", "max=255"),
		schema.Text("message", "", "max=5000").Req(),
	)
	contactAdminMapper = schema.New(
		schema.Enum("status", "", "new", "read", "replied"),
		schema.Text("notes", "", ""),
	).Sortable("name", "name").Sortable("email", "email")

	bookingSubmitMapper = schema.New(
		schema.Text("name", "", "max=100").Req(),
		schema.Email("email", "").Req(),
		schema.Phone("phone", ""),
		schema.Text("company", "", "max=200"),
		schema.Text("service", "", "max=200"),
		schema.Text("preferredDate", "", "datetime=2006-01-02").Req(),
		schema.Text("preferredTime", "", "max=20"),
		schema.Text("message", "", "max=5000"),
	)
	bookingAdminMapper = schema.New(
		schema.Enum("status", "", "pending", "confirmed", "cancelled", "completed"),
		schema.Text("preferredDate", "", "datetime=2006-01-02"),
		schema.Text("preferredTime", "", "max=20"),
		schema.Text("notes", "", ""),
	).Sortable("name", "name")

	resumeSubmitMapper = schema.New(
		schema.Text("name", "", "max=100").Req(),
		schema.Email("email", "").Req(),
		schema.Phone("phone", ""),
		schema.Integer("careerId", "", "gt=0"),
		schema.Text("position", "", "max=200"),
		schema.Text("coverLetter", "", "max=10000"),
	)
	resumeAdminMapper = schema.New(
		schema.Enum("status", "", "new", "reviewed", "shortlisted", "rejected"),
		schema.Text("notes", "", ""),
	).Sortable("name", "name")
)

// ContactService handles contact-form submissions. One live submission is
// kept per email address.
type ContactService struct {
	*ResourceService[models.Contact]
	notifier *NotificationService
}

func NewContactService(db *gorm.DB, notifier *NotificationService) *ContactService {
	return &ContactService{
		ResourceService: NewResourceService(db, ResourceOptions[models.Contact]{
			Name:          "contact",
			Mapper:        contactAdminMapper,
			SearchColumns: []string{"name", "email", "subject"},
		}),
		notifier: notifier,
	}
}

func errAlreadySubmitted() error {
	return response.NewBadRequest("a message from this email has already been submitted")
}

// Submit stores a new contact message. A second submission from an email with
// a live contact row is rejected and nothing is written.
func (s *ContactService) Submit(payload map[string]interface{}) (*models.Contact, error) {
	var contact models.Contact
	if err := contactSubmitMapper.Decode(payload, &contact); err != nil {
		return nil, translateError(err, "contact")
	}
	contact.Status = "new"

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Contact{}).Where("email = ?", contact.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadySubmitted()
		}
		return tx.Create(&contact).Error
	})
	if isUniqueViolation(err) {
		return nil, errAlreadySubmitted()
	}
	if err != nil {
		return nil, translateError(err, "contact")
	}

	s.notifier.Notify(&SubmissionTask{
		Form:  "contact",
		ID:    contact.ID,
		Name:  contact.Name,
		Email: contact.Email,
		Fields: map[string]string{
			"Phone":   contact.Phone,
			"Subject": contact.Subject,
			"Message": contact.Message,
		},
	})
	return &contact, nil
}

type BookingService struct {
	*ResourceService[models.Booking]
	notifier *NotificationService
	now      func() time.Time
}

func NewBookingService(db *gorm.DB, notifier *NotificationService) *BookingService {
	return &BookingService{
		ResourceService: NewResourceService(db, ResourceOptions[models.Booking]{
			Name:          "booking",
			Mapper:        bookingAdminMapper,
			SearchColumns: []string{"name", "email", "company", "service"},
		}),
		notifier: notifier,
		now:      time.Now,
	}
}

// checkBookingDate accepts a YYYY-MM-DD date that is today or later in now's location.
func checkBookingDate(date string, now time.Time) error {
	day, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return response.NewBadRequest("preferredDate must be a date (YYYY-MM-DD)")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return response.NewBadRequest("preferredDate cannot be in the past")
	}
	return nil
}

// Submit stores a booking request for today or a later date.
func (s *BookingService) Submit(payload map[string]interface{}) (*models.Booking, error) {
	var booking models.Booking
	if err := bookingSubmitMapper.Decode(payload, &booking); err != nil {
		return nil, translateError(err, "booking")
	}

	if err := checkBookingDate(booking.PreferredDate, s.now()); err != nil {
		return nil, err
	}
	booking.Status = "pending"

	if err := s.db.Create(&booking).Error; err != nil {
		return nil, translateError(err, "booking")
	}

	s.notifier.Notify(&SubmissionTask{
		Form:  "booking",
		ID:    booking.ID,
		Name:  booking.Name,
		Email: booking.Email,
		Fields: map[string]string{
			"Phone":   booking.Phone,
			"Company": booking.Company,
			"Service": booking.Service,
			"Date":    booking.PreferredDate,
			"Time":    booking.PreferredTime,
			"Message": booking.Message,
		},
	})
	return &booking, nil
}

type ResumeService struct {
	*ResourceService[models.Resume]
	media    *MediaService
	notifier *NotificationService
}

func NewResumeService(db *gorm.DB, media *MediaService, notifier *NotificationService) *ResumeService {
	return &ResumeService{
		ResourceService: NewResourceService(db, ResourceOptions[models.Resume]{
			Name:          "resume",
			Mapper:        resumeAdminMapper,
			SearchColumns: []string{"name", "email", "position"},
		}),
		media:    media,
		notifier: notifier,
	}
}

// Submit validates the application, stores the CV through the media store and
// records the resume. The stored file is removed again if the insert fails.
func (s *ResumeService) Submit(ctx context.Context, payload map[string]interface{}, file *UploadInput) (*models.Resume, error) {
	var resume models.Resume
	if err := resumeSubmitMapper.Decode(payload, &resume); err != nil {
		return nil, translateError(err, "resume")
	}
	if file == nil {
		return nil, response.NewBadRequest("resume file is required")
	}

	if resume.CareerID != nil {
		var career models.Career
		err := s.db.Where("id = ? AND status = ?", *resume.CareerID, "open").First(&career).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewBadRequest("careerId does not reference an open position")
		}
		if err != nil {
			return nil, translateError(err, "career")
		}
		if resume.Position == "" {
			resume.Position = career.Title
		}
	}

	stored, err := s.media.StoreFile(ctx, *file, DocumentKinds)
	if err != nil {
		return nil, err
	}
	resume.ResumeURL = stored.URL
	resume.ResumePublicID = stored.PublicID
	resume.Status = "new"

	if err := s.db.Create(&resume).Error; err != nil {
		s.media.DiscardFile(stored.PublicID)
		return nil, translateError(err, "resume")
	}

	s.notifier.Notify(&SubmissionTask{
		Form:  "resume",
		ID:    resume.ID,
		Name:  resume.Name,
		Email: resume.Email,
		Fields: map[string]string{
			"Phone":    resume.Phone,
			"Position": resume.Position,
			"Resume":   resume.ResumeURL,
		},
	})
	return &resume, nil
}
