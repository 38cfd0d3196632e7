package handlers

import (
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PublicHandler serves the read-only site content.
type PublicHandler struct {
	pages    *services.PageService
	blogs    *services.BlogService
	services *services.ResourceService[models.Service]
	careers  *services.ResourceService[models.Career]
	team     *services.ResourceService[models.TeamMember]
	sliders  *services.ResourceService[models.Slider]
}

func NewPublicHandler(
	pages *services.PageService,
	blogs *services.BlogService,
	serviceSvc *services.ResourceService[models.Service],
	careers *services.ResourceService[models.Career],
	team *services.ResourceService[models.TeamMember],
	sliders *services.ResourceService[models.Slider],
) *PublicHandler {
	return &PublicHandler{
		pages:    pages,
		blogs:    blogs,
		services: serviceSvc,
		careers:  careers,
		team:     team,
		sliders:  sliders,
	}
}

// publicQuery binds list parameters; visibility is fixed by the route, so a
// caller-supplied status is dropped.
func publicQuery(c *gin.Context) (services.ListQuery, bool) {
	var q services.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return q, false
	}
	q.Status = ""
	return q, true
}

func listPublic[T any](c *gin.Context, svc Resource[T], key string, scopes ...func(*gorm.DB) *gorm.DB) {
	q, ok := publicQuery(c)
	if !ok {
		return
	}
	result, err := svc.List(q, scopes...)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, key, result.Items, result.Pagination())
}

// GetPage returns a published page
// GET /api/pages/:slug
func (h *PublicHandler) GetPage(c *gin.Context) {
	page, err := h.pages.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "page", page)
}

// ListBlogs returns published posts
// GET /api/blogs
func (h *PublicHandler) ListBlogs(c *gin.Context) {
	q, ok := publicQuery(c)
	if !ok {
		return
	}
	result, err := h.blogs.ListPublished(q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, "blogs", result.Items, result.Pagination())
}

// GetBlog returns a published post and counts the view
// GET /api/blogs/:slug
func (h *PublicHandler) GetBlog(c *gin.Context) {
	blog, err := h.blogs.ViewPublished(c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "blog", blog)
}

// GET /api/services
func (h *PublicHandler) ListServices(c *gin.Context) {
	listPublic[models.Service](c, h.services, "services", services.WithStatus("active"))
}

// GET /api/services/:slug
func (h *PublicHandler) GetService(c *gin.Context) {
	item, err := h.services.GetBySlug(c.Param("slug"), services.WithStatus("active"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "service", item)
}

// GET /api/careers
func (h *PublicHandler) ListCareers(c *gin.Context) {
	listPublic[models.Career](c, h.careers, "careers", services.WithStatus("open"))
}

// GET /api/careers/:slug
func (h *PublicHandler) GetCareer(c *gin.Context) {
	item, err := h.careers.GetBySlug(c.Param("slug"), services.WithStatus("open"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "career", item)
}

// GET /api/team
func (h *PublicHandler) ListTeam(c *gin.Context) {
	listPublic[models.TeamMember](c, h.team, "team", services.WithStatus("active"))
}

// GET /api/sliders
func (h *PublicHandler) ListSliders(c *gin.Context) {
	listPublic[models.Slider](c, h.sliders, "sliders", services.ActiveSliders)
}
