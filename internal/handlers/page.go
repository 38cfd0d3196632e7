package handlers

import (
	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

// PageHandler adds version history routes to the generic page CRUD.
type PageHandler struct {
	*ResourceHandler[models.Page]
	pageService *services.PageService
}

func NewPageHandler(pageService *services.PageService) *PageHandler {
	return &PageHandler{
		ResourceHandler: NewResourceHandler[models.Page](pageService, "page", "pages"),
		pageService:     pageService,
	}
}

func (h *PageHandler) Register(group *gin.RouterGroup) {
	h.ResourceHandler.Register(group)
	group.GET("/:id/versions", h.ListVersions)
	group.GET("/:id/versions/:versionId", h.GetVersion)
	group.POST("/:id/versions/:versionId/restore", h.RestoreVersion)
}

// ListVersions returns a page's history, newest first
// GET /api/admin/pages/:id/versions
func (h *PageHandler) ListVersions(c *gin.Context) {
	id, ok := parseID(c, "id", "page")
	if !ok {
		return
	}
	var q services.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.pageService.ListVersions(id, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, "versions", result.Items, result.Pagination())
}

// GetVersion returns one snapshot of a page
// GET /api/admin/pages/:id/versions/:versionId
func (h *PageHandler) GetVersion(c *gin.Context) {
	id, ok := parseID(c, "id", "page")
	if !ok {
		return
	}
	versionID, ok := parseID(c, "versionId", "version")
	if !ok {
		return
	}
	version, err := h.pageService.GetVersion(id, versionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "version", version)
}

// RestoreVersion copies a snapshot back onto the live page
// POST /api/admin/pages/:id/versions/:versionId/restore
func (h *PageHandler) RestoreVersion(c *gin.Context) {
	id, ok := parseID(c, "id", "page")
	if !ok {
		return
	}
	versionID, ok := parseID(c, "versionId", "version")
	if !ok {
		return
	}
	page, err := h.pageService.RestoreVersion(id, versionID, middleware.AdminIDPtr(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "page", page)
}
