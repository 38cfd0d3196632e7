package services

import (
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	Pages               int64            `json:"pages"`
	PublishedPages      int64            `json:"publishedPages"`
	Blogs               int64            `json:"blogs"`
	PublishedBlogs      int64            `json:"publishedBlogs"`
	Services            int64            `json:"services"`
	OpenCareers         int64            `json:"openCareers"`
	Leads               int64            `json:"leads"`
	LeadsByStatus       map[string]int64 `json:"leadsByStatus"`
	Contacts            int64            `json:"contacts"`
	NewContacts         int64            `json:"newContacts"`
	Bookings            int64            `json:"bookings"`
	PendingBookings     int64            `json:"pendingBookings"`
	Resumes             int64            `json:"resumes"`
	Affiliates          int64            `json:"affiliates"`
	PendingApplications int64            `json:"pendingApplications"`
	PendingPayoutAmount float64          `json:"pendingPayoutAmount"`
}

// GetStats counts non-deleted rows across the site.
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{LeadsByStatus: map[string]int64{}}

	counts := []struct {
		model interface{}
		where []interface{}
		dst   *int64
	}{
		{&models.Page{}, nil, &stats.Pages},
		{&models.Page{}, []interface{}{"status = ?", StatusPublished}, &stats.PublishedPages},
		{&models.Blog{}, nil, &stats.Blogs},
		{&models.Blog{}, []interface{}{"status = ?", StatusPublished}, &stats.PublishedBlogs},
		{&models.Service{}, nil, &stats.Services},
		{&models.Career{}, []interface{}{"status = ?", "open"}, &stats.OpenCareers},
		{&models.Lead{}, nil, &stats.Leads},
		{&models.Contact{}, nil, &stats.Contacts},
		{&models.Contact{}, []interface{}{"status = ?", "new"}, &stats.NewContacts},
		{&models.Booking{}, nil, &stats.Bookings},
		{&models.Booking{}, []interface{}{"status = ?", "pending"}, &stats.PendingBookings},
		{&models.Resume{}, nil, &stats.Resumes},
		{&models.Affiliate{}, nil, &stats.Affiliates},
		{&models.AffiliateApplication{}, []interface{}{"status = ?", ApplicationPending}, &stats.PendingApplications},
	}
	for _, c := range counts {
		query := s.db.Model(c.model)
		if len(c.where) > 0 {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(c.dst).Error; err != nil {
			return nil, translateError(err, "dashboard")
		}
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Lead{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "dashboard")
	}
	for _, r := range rows {
		stats.LeadsByStatus[r.Status] = r.Count
	}

	if err := s.db.Model(&models.Payout{}).
		Where("status = ?", PayoutPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.PendingPayoutAmount).Error; err != nil {
		return nil, translateError(err, "dashboard")
	}
	return stats, nil
}
