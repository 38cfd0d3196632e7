package handlers

import (
	"strconv"

	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Resource is the part of services.ResourceService the admin CRUD routes use.
type Resource[T any] interface {
	Name() string
	List(q services.ListQuery, scopes ...func(*gorm.DB) *gorm.DB) (*services.ListResult[T], error)
	Get(id uint, scopes ...func(*gorm.DB) *gorm.DB) (*T, error)
	Create(payload map[string]interface{}, meta services.WriteMeta) (*T, error)
	Update(id uint, payload map[string]interface{}, meta services.WriteMeta) (*T, error)
	Delete(id uint) error
}

// ResourceHandler serves list/get/create/update/delete for one admin resource.
// Items are wrapped under Key and lists under Plural.
type ResourceHandler[T any] struct {
	svc    Resource[T]
	Key    string
	Plural string
	// NoCreate drops the POST route for resources that only arrive through
	// public forms.
	NoCreate bool
}

func NewResourceHandler[T any](svc Resource[T], key, plural string) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc, Key: key, Plural: plural}
}

// Register mounts the five CRUD routes on group. Routes that need different
// behaviour (e.g. media upload) are registered by hand instead.
func (h *ResourceHandler[T]) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	if !h.NoCreate {
		group.POST("", h.Create)
	}
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List returns a page of rows
// GET /api/admin/<resource>
func (h *ResourceHandler[T]) List(c *gin.Context) {
	var q services.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.List(q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, h.Plural, result.Items, result.Pagination())
}

// Get returns one row by id
// GET /api/admin/<resource>/:id
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	id, ok := parseID(c, "id", h.svc.Name())
	if !ok {
		return
	}
	item, err := h.svc.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, h.Key, item)
}

// Create inserts a row from a JSON body
// POST /api/admin/<resource>
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	item, err := h.svc.Create(payload, services.WriteMeta{ActorID: middleware.AdminIDPtr(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, h.Key, item)
}

// Update applies a partial JSON body
// PUT /api/admin/<resource>/:id
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c, "id", h.svc.Name())
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	item, err := h.svc.Update(id, payload, services.WriteMeta{ActorID: middleware.AdminIDPtr(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, h.Key, item)
}

// Delete soft-deletes a row
// DELETE /api/admin/<resource>/:id
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", h.svc.Name())
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, h.svc.Name()+" deleted successfully")
}

// parseID reads a numeric path parameter and writes the 400 itself on failure.
func parseID(c *gin.Context, param, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name+" id")
		return 0, false
	}
	return uint(id), true
}

func bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		response.BadRequest(c, "request body must be a JSON object")
		return nil, false
	}
	return payload, true
}
