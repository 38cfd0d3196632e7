package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact is a public contact-form submission. At most one live row per email.
type Contact struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"size:255;not null;index" json:"email"`
	Phone     string         `gorm:"size:50" json:"phone"`
	Subject   string         `gorm:"size:255" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Status    string         `gorm:"size:20;default:new;index" json:"status"` // new, read, replied
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Contact) TableName() string { return "contacts" }

type Booking struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Email         string         `gorm:"size:255;not null;index" json:"email"`
	Phone         string         `gorm:"size:50" json:"phone"`
	Company       string         `gorm:"size:200" json:"company"`
	Service       string         `gorm:"size:200" json:"service"`
	PreferredDate string         `gorm:"size:10;index" json:"preferredDate"` // YYYY-MM-DD
	PreferredTime string         `gorm:"size:20" json:"preferredTime"`
	Message       string         `gorm:"type:text" json:"message"`
	Status        string         `gorm:"size:20;default:pending;index" json:"status"` // pending, confirmed, cancelled, completed
	Notes         string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Booking) TableName() string { return "bookings" }

// Resume is a job application with an uploaded CV.
type Resume struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Email          string         `gorm:"size:255;not null;index" json:"email"`
	Phone          string         `gorm:"size:50" json:"phone"`
	CareerID       *uint          `gorm:"index" json:"careerId"`
	Career         *Career        `gorm:"foreignKey:CareerID" json:"career,omitempty"`
	Position       string         `gorm:"size:200" json:"position"`
	CoverLetter    string         `gorm:"type:text" json:"coverLetter"`
	ResumeURL      string         `gorm:"column:resume_url;size:1000" json:"resumeUrl"`
	ResumePublicID string         `gorm:"column:resume_public_id;size:255" json:"resumePublicId"`
	Status         string         `gorm:"size:20;default:new;index" json:"status"` // new, reviewed, shortlisted, rejected
	Notes          string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Resume) TableName() string { return "resumes" }
