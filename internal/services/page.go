package services

import (
	"fmt"
	"math"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"gorm.io/gorm"
)

const StatusPublished = "published"

var pageMapper = schema.New(
	schema.Text("title", "", "max=255").Req(),
	schema.Slug("slug", ""),
	schema.Text("content", "", ""),
	schema.JSON("sections", ""),
	schema.Text("metaTitle", "", "max=255"),
	schema.Text("metaDescription", "", ""),
	schema.Text("metaKeywords", "", ""),
	schema.Enum("status", "", "draft", "published", "archived"),
	schema.Text("template", "", "max=50"),
).Sortable("publishedAt", "published_at")

// PageService manages pages and their append-only version history. Every
// create, update and restore appends a snapshot of the page as it stands after
// the write, so the newest version always equals the live page.
type PageService struct {
	*ResourceService[models.Page]
	db  *gorm.DB
	now func() time.Time
}

func NewPageService(db *gorm.DB) *PageService {
	s := &PageService{db: db, now: time.Now}
	s.ResourceService = NewResourceService(db, ResourceOptions[models.Page]{
		Name:          "page",
		Mapper:        pageMapper,
		SearchColumns: []string{"title", "slug", "content"},
		Slug:          &SlugOptions{Source: "title"},
		Defaults:      map[string]interface{}{"status": "draft", "template": "default"},
		BeforeCreate: func(tx *gorm.DB, p *models.Page, meta WriteMeta) error {
			p.CreatedBy = meta.ActorID
			if p.Status == StatusPublished && p.PublishedAt == nil {
				now := s.now()
				p.PublishedAt = &now
			}
			return nil
		},
		BeforeUpdate: func(tx *gorm.DB, _ *models.Page, updates map[string]interface{}, _ WriteMeta) error {
			publishOnce(updates, s.now())
			return nil
		},
		AfterWrite: func(tx *gorm.DB, p *models.Page, created bool, meta WriteMeta) error {
			note := meta.Note
			if note == "" {
				note = "Updated"
				if created {
					note = "Initial version"
				}
			}
			return s.appendVersion(tx, p, note, meta.ActorID)
		},
	})
	return s
}

// publishOnce stamps published_at on the first transition to published and
// leaves an existing timestamp untouched.
func publishOnce(updates map[string]interface{}, now time.Time) {
	if status, _ := updates["status"].(string); status == StatusPublished {
		updates["published_at"] = gorm.Expr("COALESCE(published_at, ?)", now)
	}
}

// GetPublishedBySlug is the public read: drafts and archived pages are hidden.
func (s *PageService) GetPublishedBySlug(slug string) (*models.Page, error) {
	return s.GetBySlug(slug, WithStatus(StatusPublished))
}

func (s *PageService) appendVersion(tx *gorm.DB, p *models.Page, note string, actorID *uint) error {
	var latest int
	if err := tx.Model(&models.PageVersion{}).
		Where("page_id = ?", p.ID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&latest).Error; err != nil {
		return err
	}

	version := p.Snapshot(note, actorID)
	version.VersionNumber = latest + 1
	return tx.Create(version).Error
}

// ListVersions returns a page's versions, newest first.
func (s *PageService) ListVersions(pageID uint, q ListQuery) (*ListResult[models.PageVersion], error) {
	q.normalize()

	if _, err := s.Get(pageID); err != nil {
		return nil, err
	}

	query := s.db.Model(&models.PageVersion{}).Where("page_id = ?", pageID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, translateError(err, "page version")
	}

	versions := make([]models.PageVersion, 0, q.Limit)
	if err := query.Order("version_number DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&versions).Error; err != nil {
		return nil, translateError(err, "page version")
	}

	return &ListResult[models.PageVersion]{
		Items:      versions,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

// GetVersion returns one version, which must belong to the page.
func (s *PageService) GetVersion(pageID, versionID uint) (*models.PageVersion, error) {
	if _, err := s.Get(pageID); err != nil {
		return nil, err
	}
	var version models.PageVersion
	if err := s.db.Where("id = ? AND page_id = ?", versionID, pageID).First(&version).Error; err != nil {
		return nil, translateError(err, "page version")
	}
	return &version, nil
}

// RestoreVersion copies a version's fields back onto the live page and records
// the result as a new version. created_at is kept and no version is removed.
func (s *PageService) RestoreVersion(pageID, versionID uint, actorID *uint) (*models.Page, error) {
	var restored models.Page
	err := runInTx(s.db, true, func(tx *gorm.DB) error {
		var page models.Page
		if err := tx.First(&page, pageID).Error; err != nil {
			return translateError(err, "page")
		}

		var version models.PageVersion
		if err := tx.Where("id = ? AND page_id = ?", versionID, pageID).First(&version).Error; err != nil {
			return translateError(err, "page version")
		}

		var clash int64
		if err := tx.Model(&models.Page{}).
			Where("slug = ? AND id <> ?", version.Slug, pageID).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return response.NewConflict(fmt.Sprintf("slug %q is now used by another page", version.Slug))
		}

		cols := version.RestoreColumns()
		publishOnce(cols, s.now())
		if err := tx.Model(&models.Page{}).Where("id = ?", pageID).Updates(cols).Error; err != nil {
			return err
		}

		if err := tx.First(&restored, pageID).Error; err != nil {
			return err
		}
		return s.appendVersion(tx, &restored, fmt.Sprintf("Restored from version %d", version.VersionNumber), actorID)
	})
	if err != nil {
		return nil, translateError(err, "page")
	}
	return &restored, nil
}
