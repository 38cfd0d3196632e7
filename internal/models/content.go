package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Blog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Slug            string         `gorm:"size:255;not null;index" json:"slug"`
	Excerpt         string         `gorm:"type:text" json:"excerpt"`
	Content         string         `gorm:"type:text" json:"content"`
	FeaturedImage   string         `gorm:"size:1000" json:"featuredImage"`
	Author          string         `gorm:"size:100" json:"author"`
	Category        string         `gorm:"size:100;index" json:"category"`
	Tags            datatypes.JSON `json:"tags"`
	MetaTitle       string         `gorm:"size:255" json:"metaTitle"`
	MetaDescription string         `gorm:"type:text" json:"metaDescription"`
	Status          string         `gorm:"size:20;default:draft;index" json:"status"` // draft, published, archived
	PublishedAt     *time.Time     `gorm:"index" json:"publishedAt"`
	Views           int64          `gorm:"default:0" json:"views"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Blog) TableName() string { return "blogs" }

// Service is an offering shown on the marketing site
type Service struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Slug             string         `gorm:"size:255;not null;index" json:"slug"`
	ShortDescription string         `gorm:"type:text" json:"shortDescription"`
	Description      string         `gorm:"type:text" json:"description"`
	Icon             string         `gorm:"size:255" json:"icon"`
	Image            string         `gorm:"size:1000" json:"image"`
	Features         datatypes.JSON `json:"features"`
	SortOrder        int            `gorm:"default:0" json:"sortOrder"`
	Status           string         `gorm:"size:20;default:active;index" json:"status"` // active, inactive
	MetaTitle        string         `gorm:"size:255" json:"metaTitle"`
	MetaDescription  string         `gorm:"type:text" json:"metaDescription"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Service) TableName() string { return "services" }

// Career is a job opening
type Career struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Slug           string         `gorm:"size:255;not null;index" json:"slug"`
	Department     string         `gorm:"size:100" json:"department"`
	Location       string         `gorm:"size:200" json:"location"`
	EmploymentType string         `gorm:"size:50" json:"employmentType"` // full-time, part-time, contract, remote
	SalaryRange    string         `gorm:"size:100" json:"salaryRange"`
	Description    string         `gorm:"type:text" json:"description"`
	Requirements   string         `gorm:"type:text" json:"requirements"`
	Status         string         `gorm:"size:20;default:open;index" json:"status"` // open, closed
	Deadline       *time.Time     `json:"deadline"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Career) TableName() string { return "careers" }

type TeamMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Position  string         `gorm:"size:100" json:"position"`
	Bio       string         `gorm:"type:text" json:"bio"`
	Photo     string         `gorm:"size:1000" json:"photo"`
	Email     string         `gorm:"size:255" json:"email"`
	LinkedIn  string         `gorm:"column:linkedin;size:500" json:"linkedin"`
	SortOrder int            `gorm:"default:0" json:"sortOrder"`
	Status    string         `gorm:"size:20;default:active;index" json:"status"` // active, inactive
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TeamMember) TableName() string { return "team_members" }

type Slider struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Subtitle    string         `gorm:"size:255" json:"subtitle"`
	Description string         `gorm:"type:text" json:"description"`
	Image       string         `gorm:"size:1000" json:"image"`
	ButtonText  string         `gorm:"size:100" json:"buttonText"`
	ButtonLink  string         `gorm:"size:1000" json:"buttonLink"`
	SortOrder   int            `gorm:"default:0" json:"sortOrder"`
	IsActive    bool           `gorm:"index" json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Slider) TableName() string { return "sliders" }

// Media is an uploaded file held by the media store.
type Media struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Filename     string         `gorm:"size:255;not null" json:"filename"`
	OriginalName string         `gorm:"size:255" json:"originalName"`
	URL          string         `gorm:"column:url;size:1000;not null" json:"url"`
	PublicID     string         `gorm:"column:public_id;size:255;not null;index" json:"publicId"`
	MimeType     string         `gorm:"size:100" json:"mimeType"`
	Size         int64          `json:"size"`
	AltText      string         `gorm:"size:255" json:"altText"`
	Folder       string         `gorm:"size:100;index" json:"folder"`
	UploadedBy   *uint          `json:"uploadedBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Media) TableName() string { return "media" }
