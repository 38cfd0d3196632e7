package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is the site-wide configuration record. Only the first row is used.
type Setting struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SiteName        string         `gorm:"size:200" json:"siteName"`
	Tagline         string         `gorm:"size:255" json:"tagline"`
	Logo            string         `gorm:"size:1000" json:"logo"`
	Favicon         string         `gorm:"size:1000" json:"favicon"`
	ContactEmail    string         `gorm:"size:255" json:"contactEmail"`
	ContactPhone    string         `gorm:"size:50" json:"contactPhone"`
	Address         string         `gorm:"type:text" json:"address"`
	MapEmbedURL     string         `gorm:"column:map_embed_url;type:text" json:"mapEmbedUrl"`
	SocialLinks     datatypes.JSON `json:"socialLinks"`
	MetaTitle       string         `gorm:"size:255" json:"metaTitle"`
	MetaDescription string         `gorm:"type:text" json:"metaDescription"`
	MetaKeywords    string         `gorm:"type:text" json:"metaKeywords"`
	WorkingHours    datatypes.JSON `json:"workingHours"`
	FooterText      string         `gorm:"type:text" json:"footerText"`
	Extra           datatypes.JSON `json:"extra"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (Setting) TableName() string { return "settings" }

// DefaultSetting is served when no settings row has been written yet.
func DefaultSetting() *Setting {
	return &Setting{
		SiteName:     "Medical Billing Services",
		SocialLinks:  datatypes.JSON(`{}`),
		WorkingHours: datatypes.JSON(`{}`),
		Extra:        datatypes.JSON(`{}`),
	}
}

// Clone returns a deep copy so cached values cannot be mutated by callers.
func (s *Setting) Clone() *Setting {
	if s == nil {
		return nil
	}
	c := *s
	c.SocialLinks = cloneJSON(s.SocialLinks)
	c.WorkingHours = cloneJSON(s.WorkingHours)
	c.Extra = cloneJSON(s.Extra)
	return &c
}

func cloneJSON(j datatypes.JSON) datatypes.JSON {
	if j == nil {
		return nil
	}
	out := make(datatypes.JSON, len(j))
	copy(out, j)
	return out
}
