package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AffiliateActive     = "active"
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
	LeadConverted       = "converted"
	PayoutPending       = "pending"
	PayoutPaid          = "paid"
)

var (
	affiliateMapper = schema.New(
		schema.Text("name", "", "max=100").Req(),
		schema.Email("email", "").Req(),
		schema.Phone("phone", ""),
		schema.Text("company", "", "max=200"),
		schema.URL("website", ""),
		schema.Number("commissionRate", "", "gte=0,lte=100"),
		schema.Enum("status", "", "active", "inactive", "suspended"),
		schema.Text("notes", "", ""),
	).Sortable("name", "name").Sortable("code", "code")

	applicationSubmitMapper = schema.New(
		schema.Text("name", "", "max=100").Req(),
		schema.Email("email", "").Req(),
		schema.Phone("phone", ""),
		schema.Text("company", "", "max=200"),
		schema.URL("website", ""),
		schema.Text("audience", "", "max=5000"),
		schema.Text("message", "", "max=5000"),
	)
	applicationAdminMapper = schema.New(
		schema.Text("notes", "", ""),
	).Sortable("name", "name")

	leadSubmitMapper = schema.New(
		schema.Text("name", "", "max=100").Req(),
		schema.Email("email", "").Req(),
		schema.Phone("phone", ""),
		schema.Text("company", "", "max=200"),
		schema.Text("practiceType", "", "max=100"),
		schema.Text("serviceInterest", "", "max=200"),
		schema.Text("message", "", "max=5000"),
		schema.Text("source", "", "max=50"),
		schema.Text("referralCode", "", "max=20"),
	)
	leadAdminMapper = schema.New(
		schema.Text("name", "", "max=100").Req(),
		schema.Email("email", "").Req(),
		schema.Phone("phone", ""),
		schema.Text("company", "", "max=200"),
		schema.Text("practiceType", "", "max=100"),
		schema.Text("serviceInterest", "", "max=200"),
		schema.Text("message", "", "max=5000"),
		schema.Text("source", "", "max=50"),
		schema.Integer("affiliateId", "", "gt=0"),
		schema.Enum("status", "", "new", "contacted", "qualified", "converted", "lost"),
		schema.Number("estimatedValue", "", "gte=0"),
		schema.Text("notes", "", ""),
	).Sortable("name", "name").Sortable("estimatedValue", "estimated_value")

	payoutMapper = schema.New(
		schema.Integer("affiliateId", "", "gt=0").Req(),
		schema.Number("amount", "", "gt=0").Req(),
		schema.Text("currency", "", "len=3"),
		schema.Text("method", "", "max=50"),
		schema.Text("reference", "", "max=100"),
		schema.Enum("status", "", "pending", "paid", "cancelled"),
		schema.Timestamp("periodStart", ""),
		schema.Timestamp("periodEnd", ""),
		schema.Text("notes", "", ""),
	).Sortable("amount", "amount").Sortable("paidAt", "paid_at")
)

// NewAffiliateCode returns "AFF-" followed by eight uppercase hex characters.
func NewAffiliateCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "AFF-" + strings.ToUpper(id[:8])
}

// AffiliateService manages referral partners, their applications and stats.
type AffiliateService struct {
	*ResourceService[models.Affiliate]
	db             *gorm.DB
	defaultRate    float64
	notifier       *NotificationService
	newCode        func() string
	now            func() time.Time
	applicationSvc *ResourceService[models.AffiliateApplication]
}

func NewAffiliateService(db *gorm.DB, defaultRate float64, notifier *NotificationService) *AffiliateService {
	s := &AffiliateService{
		db:          db,
		defaultRate: defaultRate,
		notifier:    notifier,
		newCode:     NewAffiliateCode,
		now:         time.Now,
	}
	s.ResourceService = NewResourceService(db, ResourceOptions[models.Affiliate]{
		Name:          "affiliate",
		Mapper:        affiliateMapper,
		SearchColumns: []string{"name", "email", "company", "code"},
		Defaults:      map[string]interface{}{"status": AffiliateActive, "commissionRate": defaultRate},
		BeforeCreate: func(tx *gorm.DB, a *models.Affiliate, _ WriteMeta) error {
			var taken int64
			if err := tx.Model(&models.Affiliate{}).Where("email = ?", a.Email).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return response.NewConflict("this email already belongs to an affiliate")
			}
			return s.assignCode(tx, a)
		},
	})
	s.applicationSvc = NewResourceService(db, ResourceOptions[models.AffiliateApplication]{
		Name:          "application",
		Mapper:        applicationAdminMapper,
		SearchColumns: []string{"name", "email", "company"},
	})
	return s
}

// Applications exposes the generic list/get/update/delete surface for
// affiliate applications.
func (s *AffiliateService) Applications() *ResourceService[models.AffiliateApplication] {
	return s.applicationSvc
}

func (s *AffiliateService) assignCode(tx *gorm.DB, a *models.Affiliate) error {
	for i := 0; i < maxWriteAttempts; i++ {
		code := s.newCode()
		var taken int64
		if err := tx.Model(&models.Affiliate{}).Where("code = ?", code).Count(&taken).Error; err != nil {
			return err
		}
		if taken == 0 {
			a.Code = code
			return nil
		}
	}
	return response.NewConflict("could not allocate a unique affiliate code")
}

// Apply records a public affiliate application. An email that already has a
// pending application or belongs to an affiliate is rejected with 409.
func (s *AffiliateService) Apply(payload map[string]interface{}) (*models.AffiliateApplication, error) {
	var app models.AffiliateApplication
	if err := applicationSubmitMapper.Decode(payload, &app); err != nil {
		return nil, translateError(err, "application")
	}
	app.Status = ApplicationPending

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.AffiliateApplication{}).
			Where("email = ? AND status = ?", app.Email, ApplicationPending).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return response.NewConflict("an application for this email is already pending")
		}
		if err := tx.Model(&models.Affiliate{}).Where("email = ?", app.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return response.NewConflict("this email already belongs to an affiliate")
		}
		return tx.Create(&app).Error
	})
	if err != nil {
		return nil, translateError(err, "application")
	}

	s.notifier.Notify(&SubmissionTask{
		Form:  "affiliate_application",
		ID:    app.ID,
		Name:  app.Name,
		Email: app.Email,
		Fields: map[string]string{
			"Phone":    app.Phone,
			"Company":  app.Company,
			"Website":  app.Website,
			"Audience": app.Audience,
			"Message":  app.Message,
		},
	})
	return &app, nil
}

// ApproveApplication turns a pending application into an affiliate and links
// the two. Anything but a pending application is a conflict.
func (s *AffiliateService) ApproveApplication(id uint, reviewerID *uint) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := s.db.Transaction(func(tx *gorm.DB) error {
		app, err := s.pendingApplication(tx, id)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Affiliate{}).Where("email = ?", app.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return response.NewConflict("this email already belongs to an affiliate")
		}

		affiliate = models.Affiliate{
			Name:           app.Name,
			Email:          app.Email,
			Phone:          app.Phone,
			Company:        app.Company,
			Website:        app.Website,
			CommissionRate: s.defaultRate,
			Status:         AffiliateActive,
		}
		if err := s.assignCode(tx, &affiliate); err != nil {
			return err
		}
		if err := tx.Create(&affiliate).Error; err != nil {
			return err
		}

		return s.review(tx, app.ID, ApplicationApproved, reviewerID, &affiliate.ID)
	})
	if err != nil {
		return nil, translateError(err, "affiliate")
	}
	return &affiliate, nil
}

func (s *AffiliateService) RejectApplication(id uint, reviewerID *uint) (*models.AffiliateApplication, error) {
	var app *models.AffiliateApplication
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pending, err := s.pendingApplication(tx, id)
		if err != nil {
			return err
		}
		if err := s.review(tx, pending.ID, ApplicationRejected, reviewerID, nil); err != nil {
			return err
		}
		app = pending
		return tx.First(app, pending.ID).Error
	})
	if err != nil {
		return nil, translateError(err, "application")
	}
	return app, nil
}

func (s *AffiliateService) pendingApplication(tx *gorm.DB, id uint) (*models.AffiliateApplication, error) {
	var app models.AffiliateApplication
	if err := tx.First(&app, id).Error; err != nil {
		return nil, translateError(err, "application")
	}
	if app.Status != ApplicationPending {
		return nil, response.NewConflict(fmt.Sprintf("application is already %s", app.Status))
	}
	return &app, nil
}

func (s *AffiliateService) review(tx *gorm.DB, id uint, status string, reviewerID, affiliateID *uint) error {
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewerID,
		"reviewed_at": s.now(),
	}
	if affiliateID != nil {
		updates["affiliate_id"] = *affiliateID
	}
	// the status guard makes a concurrent second review a no-op
	res := tx.Model(&models.AffiliateApplication{}).
		Where("id = ? AND status = ?", id, ApplicationPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return response.NewConflict("application is no longer pending")
	}
	return nil
}

// ValidateCode reports whether code belongs to an active affiliate.
func (s *AffiliateService) ValidateCode(code string) (*models.Affiliate, bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, false, nil
	}
	var affiliate models.Affiliate
	err := s.db.Where("code = ? AND status = ?", code, AffiliateActive).First(&affiliate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, translateError(err, "affiliate")
	}
	return &affiliate, true, nil
}

type AffiliateStats struct {
	AffiliateID    uint             `json:"affiliateId"`
	TotalLeads     int64            `json:"totalLeads"`
	LeadsByStatus  map[string]int64 `json:"leadsByStatus"`
	ConvertedLeads int64            `json:"convertedLeads"`
	TotalPaid      float64          `json:"totalPaid"`
	TotalPending   float64          `json:"totalPending"`
}

func (s *AffiliateService) Stats(id uint) (*AffiliateStats, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	stats := &AffiliateStats{AffiliateID: id, LeadsByStatus: map[string]int64{}}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Lead{}).
		Select("status, COUNT(*) AS count").
		Where("affiliate_id = ?", id).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "affiliate")
	}
	for _, r := range rows {
		stats.LeadsByStatus[r.Status] = r.Count
		stats.TotalLeads += r.Count
	}
	stats.ConvertedLeads = stats.LeadsByStatus[LeadConverted]

	sum := func(status string) (float64, error) {
		var total float64
		err := s.db.Model(&models.Payout{}).
			Where("affiliate_id = ? AND status = ?", id, status).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
		return total, err
	}
	var err error
	if stats.TotalPaid, err = sum(PayoutPaid); err != nil {
		return nil, translateError(err, "payout")
	}
	if stats.TotalPending, err = sum(PayoutPending); err != nil {
		return nil, translateError(err, "payout")
	}
	return stats, nil
}

// LeadService handles public lead capture and the admin pipeline.
type LeadService struct {
	*ResourceService[models.Lead]
	affiliates *AffiliateService
	notifier   *NotificationService
}

func NewLeadService(db *gorm.DB, affiliates *AffiliateService, notifier *NotificationService) *LeadService {
	return &LeadService{
		ResourceService: NewResourceService(db, ResourceOptions[models.Lead]{
			Name:          "lead",
			Mapper:        leadAdminMapper,
			SearchColumns: []string{"name", "email", "company", "referral_code"},
			Defaults:      map[string]interface{}{"status": "new", "source": "admin"},
			BeforeCreate: func(tx *gorm.DB, l *models.Lead, _ WriteMeta) error {
				return requireAffiliate(tx, l.AffiliateID)
			},
			BeforeUpdate: func(tx *gorm.DB, _ *models.Lead, updates map[string]interface{}, _ WriteMeta) error {
				if id, ok := updates["affiliate_id"].(int64); ok {
					u := uint(id)
					return requireAffiliate(tx, &u)
				}
				return nil
			},
		}),
		affiliates: affiliates,
		notifier:   notifier,
	}
}

func requireAffiliate(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&models.Affiliate{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return response.NewBadRequest("affiliateId does not reference an affiliate")
	}
	return nil
}

// Submit records a public lead. A referral code must belong to an active
// affiliate; the lead is attributed to it.
func (s *LeadService) Submit(payload map[string]interface{}) (*models.Lead, error) {
	var lead models.Lead
	if err := leadSubmitMapper.Decode(payload, &lead); err != nil {
		return nil, translateError(err, "lead")
	}

	lead.ReferralCode = strings.ToUpper(lead.ReferralCode)
	if lead.ReferralCode != "" {
		affiliate, ok, err := s.affiliates.ValidateCode(lead.ReferralCode)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, response.NewBadRequest("referralCode is not a valid affiliate code")
		}
		lead.AffiliateID = &affiliate.ID
		if lead.Source == "" {
			lead.Source = "referral"
		}
	}
	if lead.Source == "" {
		lead.Source = "website"
	}
	lead.Status = "new"

	if err := s.db.Create(&lead).Error; err != nil {
		return nil, translateError(err, "lead")
	}

	s.notifier.Notify(&SubmissionTask{
		Form:  "lead",
		ID:    lead.ID,
		Name:  lead.Name,
		Email: lead.Email,
		Fields: map[string]string{
			"Phone":         lead.Phone,
			"Company":       lead.Company,
			"Practice type": lead.PracticeType,
			"Interest":      lead.ServiceInterest,
			"Referral code": lead.ReferralCode,
			"Message":       lead.Message,
		},
	})
	return &lead, nil
}

// NewPayoutService builds the payout resource. The affiliate must exist and
// paid_at is stamped on the first transition to paid.
func NewPayoutService(db *gorm.DB) *ResourceService[models.Payout] {
	now := time.Now
	return NewResourceService(db, ResourceOptions[models.Payout]{
		Name:          "payout",
		Mapper:        payoutMapper,
		SearchColumns: []string{"reference", "method"},
		Defaults:      map[string]interface{}{"status": PayoutPending, "currency": "USD"},
		BeforeCreate: func(tx *gorm.DB, p *models.Payout, _ WriteMeta) error {
			id := p.AffiliateID
			if err := requireAffiliate(tx, &id); err != nil {
				return err
			}
			p.Currency = strings.ToUpper(p.Currency)
			if p.Status == PayoutPaid && p.PaidAt == nil {
				t := now()
				p.PaidAt = &t
			}
			return nil
		},
		BeforeUpdate: func(tx *gorm.DB, _ *models.Payout, updates map[string]interface{}, _ WriteMeta) error {
			if id, ok := updates["affiliate_id"].(int64); ok {
				u := uint(id)
				if err := requireAffiliate(tx, &u); err != nil {
					return err
				}
			}
			if c, ok := updates["currency"].(string); ok {
				updates["currency"] = strings.ToUpper(c)
			}
			if status, _ := updates["status"].(string); status == PayoutPaid {
				updates["paid_at"] = gorm.Expr("COALESCE(paid_at, ?)", now())
			}
			return nil
		},
	})
}
