package services

import (
	"errors"

	"github.com/Adeel3330/agile-next-sub002/internal/metrics"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"gorm.io/gorm"
)

var settingsMapper = schema.New(
	schema.Text("siteName", "", "max=200"),
	schema.Text("tagline", "", "max=255"),
	schema.URL("logo", ""),
	schema.URL("favicon", ""),
	schema.Field{JSON: "contactEmail", Column: "contact_email", Transform: schema.LowerString, Rules: "email,max=255"},
	schema.Text("contactPhone", "", "max=50"),
	schema.Text("address", "", ""),
	schema.Text("mapEmbedUrl", "map_embed_url", ""),
	schema.JSON("socialLinks", ""),
	schema.Text("metaTitle", "", "max=255"),
	schema.Text("metaDescription", "", ""),
	schema.Text("metaKeywords", "", ""),
	schema.JSON("workingHours", ""),
	schema.Text("footerText", "", ""),
	schema.JSON("extra", ""),
)

// SettingsService serves the site settings record through a SettingsCache.
type SettingsService struct {
	db    *gorm.DB
	cache SettingsCache
}

func NewSettingsService(db *gorm.DB, cache SettingsCache) *SettingsService {
	return &SettingsService{db: db, cache: cache}
}

// Get returns the cached settings, reading the first row on a miss. When no row
// exists a default record is returned and cached. Store failures are returned
// and never cached.
func (s *SettingsService) Get() (*models.Setting, error) {
	if cached, ok := s.cache.Get(); ok {
		metrics.SettingsCacheHits.Inc()
		return cached, nil
	}
	metrics.SettingsCacheMisses.Inc()

	// taken before the read so a write that lands meanwhile invalidates it
	gen := s.cache.Generation()

	var setting models.Setting
	err := s.db.Order("id ASC").First(&setting).Error
	switch {
	case err == nil:
		s.cache.SetIfGeneration(gen, &setting)
		return setting.Clone(), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		def := models.DefaultSetting()
		s.cache.SetIfGeneration(gen, def)
		return def, nil
	default:
		return nil, translateError(err, "settings")
	}
}

// Update writes the given fields to the first settings row, creating it when
// absent, and invalidates the cache once the write has been attempted.
func (s *SettingsService) Update(payload map[string]interface{}) (*models.Setting, error) {
	defer s.cache.Clear()

	cols, err := settingsMapper.Columns(payload)
	if err != nil {
		return nil, translateError(err, "settings")
	}

	var result models.Setting
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var current models.Setting
		err := tx.Order("id ASC").First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created := models.DefaultSetting()
			normalized, err := settingsMapper.Normalize(payload, false)
			if err != nil {
				return err
			}
			if err := schema.DecodeNormalized(normalized, created); err != nil {
				return err
			}
			if err := tx.Create(created).Error; err != nil {
				return err
			}
			result = *created
			return nil
		}
		if err != nil {
			return err
		}

		if len(cols) > 0 {
			if err := tx.Model(&models.Setting{}).Where("id = ?", current.ID).Updates(cols).Error; err != nil {
				return err
			}
		}
		return tx.First(&result, current.ID).Error
	})
	if err != nil {
		return nil, translateError(err, "settings")
	}
	return &result, nil
}
