package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Page is a CMS content document
type Page struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Slug            string         `gorm:"size:255;not null;index" json:"slug"`
	Content         string         `gorm:"type:text" json:"content"`
	Sections        datatypes.JSON `json:"sections"`
	MetaTitle       string         `gorm:"size:255" json:"metaTitle"`
	MetaDescription string         `gorm:"type:text" json:"metaDescription"`
	MetaKeywords    string         `gorm:"type:text" json:"metaKeywords"`
	Status          string         `gorm:"size:20;default:draft;index" json:"status"` // draft, published, archived
	Template        string         `gorm:"size:50;default:default" json:"template"`
	PublishedAt     *time.Time     `json:"publishedAt"`
	CreatedBy       *uint          `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Page) TableName() string { return "pages" }

// PageVersion is an immutable snapshot of a page's mutable fields.
type PageVersion struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PageID          uint           `gorm:"not null;uniqueIndex:idx_page_versions_page_number" json:"pageId"`
	VersionNumber   int            `gorm:"not null;uniqueIndex:idx_page_versions_page_number" json:"versionNumber"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Slug            string         `gorm:"size:255;not null" json:"slug"`
	Content         string         `gorm:"type:text" json:"content"`
	Sections        datatypes.JSON `json:"sections"`
	MetaTitle       string         `gorm:"size:255" json:"metaTitle"`
	MetaDescription string         `gorm:"type:text" json:"metaDescription"`
	MetaKeywords    string         `gorm:"type:text" json:"metaKeywords"`
	Status          string         `gorm:"size:20" json:"status"`
	Template        string         `gorm:"size:50" json:"template"`
	ChangeNote      string         `gorm:"size:500" json:"changeNote"`
	CreatedBy       *uint          `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (PageVersion) TableName() string { return "page_versions" }

// Snapshot copies the page's mutable fields into a new, unnumbered version.
func (p *Page) Snapshot(note string, actorID *uint) *PageVersion {
	return &PageVersion{
		PageID:          p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Sections:        p.Sections,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		MetaKeywords:    p.MetaKeywords,
		Status:          p.Status,
		Template:        p.Template,
		ChangeNote:      note,
		CreatedBy:       actorID,
	}
}

// RestoreColumns are the live page columns a version overwrites.
func (v *PageVersion) RestoreColumns() map[string]interface{} {
	return map[string]interface{}{
		"title":            v.Title,
		"slug":             v.Slug,
		"content":          v.Content,
		"sections":         v.Sections,
		"meta_title":       v.MetaTitle,
		"meta_description": v.MetaDescription,
		"meta_keywords":    v.MetaKeywords,
		"status":           v.Status,
		"template":         v.Template,
	}
}
