package handlers

import (
	"net/http"

	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	*ResourceHandler[models.Media]
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{
		ResourceHandler: NewResourceHandler[models.Media](mediaService, "media", "media"),
		mediaService:    mediaService,
	}
}

func (h *MediaHandler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("", h.Upload)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Remove)
}

// Upload stores a multipart file in the media library
// POST /api/admin/media
func (h *MediaHandler) Upload(c *gin.Context) {
	in, closeFile, ok := uploadFromForm(c, "file")
	if !ok {
		return
	}
	if in == nil {
		response.BadRequest(c, "file is required")
		return
	}
	defer closeFile()

	in.AltText = c.PostForm("altText")
	in.Folder = c.PostForm("folder")
	in.UploadedBy = middleware.AdminIDPtr(c)

	media, err := h.mediaService.Upload(c.Request.Context(), *in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "media", media)
}

// Remove soft-deletes the row and deletes the stored file
// DELETE /api/admin/media/:id
func (h *MediaHandler) Remove(c *gin.Context) {
	id, ok := parseID(c, "id", "media")
	if !ok {
		return
	}
	if err := h.mediaService.Remove(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "media deleted successfully")
}

// uploadFromForm opens the named multipart file. A request without that file
// yields a nil input and ok=true so callers decide whether it is required.
func uploadFromForm(c *gin.Context, field string) (*services.UploadInput, func(), bool) {
	header, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, func() {}, true
	}
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "could not read uploaded file")
		return nil, nil, false
	}
	return &services.UploadInput{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     f,
	}, func() { _ = f.Close() }, true
}
