package services

import (
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"gorm.io/gorm"
)

var blogMapper = schema.New(
	schema.Text("title", "", "max=255").Req(),
	schema.Slug("slug", ""),
	schema.Text("excerpt", "", ""),
	schema.Text("content", "", ""),
	schema.URL("featuredImage", ""),
	schema.Text("author", "", "max=100"),
	schema.Text("category", "", "max=100"),
	schema.JSON("tags", ""),
	schema.Text("metaTitle", "", "max=255"),
	schema.Text("metaDescription", "", ""),
	schema.Enum("status", "", "draft", "published", "archived"),
).Sortable("publishedAt", "published_at").Sortable("views", "views")

var serviceMapper = schema.New(
	schema.Text("title", "", "max=255").Req(),
	schema.Slug("slug", ""),
	schema.Text("shortDescription", "", ""),
	schema.Text("description", "", ""),
	schema.Text("icon", "", "max=255"),
	schema.URL("image", ""),
	schema.JSON("features", ""),
	schema.Integer("sortOrder", "", "gte=0"),
	schema.Enum("status", "", "active", "inactive"),
	schema.Text("metaTitle", "", "max=255"),
	schema.Text("metaDescription", "", ""),
)

var careerMapper = schema.New(
	schema.Text("title", "", "max=255").Req(),
	schema.Slug("slug", ""),
	schema.Text("department", "", "max=100"),
	schema.Text("location", "", "max=200"),
	schema.Enum("employmentType", "", "full-time", "part-time", "contract", "internship", "remote").AllowBlank(),
	schema.Text("salaryRange", "", "max=100"),
	schema.Text("description", "", ""),
	schema.Text("requirements", "", ""),
	schema.Enum("status", "", "open", "closed"),
	schema.Timestamp("deadline", ""),
)

var teamMapper = schema.New(
	schema.Text("name", "", "max=100").Req(),
	schema.Text("position", "", "max=100"),
	schema.Text("bio", "", ""),
	schema.URL("photo", ""),
	schema.Email("email", ""),
	schema.Text("linkedin", "linkedin", "max=500"),
	schema.Integer("sortOrder", "", "gte=0"),
	schema.Enum("status", "", "active", "inactive"),
)

var sliderMapper = schema.New(
	schema.Text("title", "", "max=255").Req(),
	schema.Text("subtitle", "", "max=255"),
	schema.Text("description", "", ""),
	schema.URL("image", ""),
	schema.Text("buttonText", "", "max=100"),
	schema.URL("buttonLink", ""),
	schema.Integer("sortOrder", "", "gte=0"),
	schema.Boolean("isActive", ""),
)

// BlogService adds public view counting to the generic blog resource.
type BlogService struct {
	*ResourceService[models.Blog]
	db *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	now := time.Now
	return &BlogService{
		db: db,
		ResourceService: NewResourceService(db, ResourceOptions[models.Blog]{
			Name:          "blog",
			Mapper:        blogMapper,
			SearchColumns: []string{"title", "excerpt", "category", "author"},
			Slug:          &SlugOptions{Source: "title"},
			Defaults:      map[string]interface{}{"status": "draft"},
			BeforeCreate: func(tx *gorm.DB, b *models.Blog, _ WriteMeta) error {
				if b.Status == StatusPublished && b.PublishedAt == nil {
					t := now()
					b.PublishedAt = &t
				}
				return nil
			},
			BeforeUpdate: func(tx *gorm.DB, _ *models.Blog, updates map[string]interface{}, _ WriteMeta) error {
				publishOnce(updates, now())
				return nil
			},
		}),
	}
}

// ListPublished lists published posts, newest publication first by default.
func (s *BlogService) ListPublished(q ListQuery) (*ListResult[models.Blog], error) {
	q.Status = ""
	if q.Sort == "" {
		q.Sort, q.Order = "publishedAt", "desc"
	}
	return s.List(q, WithStatus(StatusPublished))
}

// ViewPublished returns a published post by slug and counts the view.
func (s *BlogService) ViewPublished(slug string) (*models.Blog, error) {
	blog, err := s.GetBySlug(slug, WithStatus(StatusPublished))
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Blog{}).Where("id = ?", blog.ID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return nil, translateError(err, "blog")
	}
	blog.Views++
	return blog, nil
}

func NewServiceService(db *gorm.DB) *ResourceService[models.Service] {
	return NewResourceService(db, ResourceOptions[models.Service]{
		Name:          "service",
		Mapper:        serviceMapper,
		SearchColumns: []string{"title", "short_description"},
		DefaultOrder:  "sort_order ASC, created_at DESC",
		Slug:          &SlugOptions{Source: "title"},
		Defaults:      map[string]interface{}{"status": "active"},
	})
}

func NewCareerService(db *gorm.DB) *ResourceService[models.Career] {
	return NewResourceService(db, ResourceOptions[models.Career]{
		Name:          "career",
		Mapper:        careerMapper,
		SearchColumns: []string{"title", "department", "location"},
		Slug:          &SlugOptions{Source: "title"},
		Defaults:      map[string]interface{}{"status": "open"},
	})
}

func NewTeamService(db *gorm.DB) *ResourceService[models.TeamMember] {
	return NewResourceService(db, ResourceOptions[models.TeamMember]{
		Name:          "team member",
		Mapper:        teamMapper,
		SearchColumns: []string{"name", "position"},
		DefaultOrder:  "sort_order ASC, created_at DESC",
		Defaults:      map[string]interface{}{"status": "active"},
	})
}

func NewSliderService(db *gorm.DB) *ResourceService[models.Slider] {
	return NewResourceService(db, ResourceOptions[models.Slider]{
		Name:          "slider",
		Mapper:        sliderMapper,
		SearchColumns: []string{"title", "subtitle"},
		DefaultOrder:  "sort_order ASC, created_at DESC",
		Defaults:      map[string]interface{}{"isActive": true},
	})
}

// ActiveSliders restricts sliders to the ones shown on the site.
func ActiveSliders(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
