package handlers

import (
	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

// AffiliateHandler serves the admin affiliate routes and the application
// review actions.
type AffiliateHandler struct {
	*ResourceHandler[models.Affiliate]
	affiliateService *services.AffiliateService
	applications     *ResourceHandler[models.AffiliateApplication]
}

func NewAffiliateHandler(affiliateService *services.AffiliateService) *AffiliateHandler {
	applications := NewResourceHandler[models.AffiliateApplication](affiliateService.Applications(), "application", "applications")
	applications.NoCreate = true
	return &AffiliateHandler{
		ResourceHandler:  NewResourceHandler[models.Affiliate](affiliateService, "affiliate", "affiliates"),
		affiliateService: affiliateService,
		applications:     applications,
	}
}

func (h *AffiliateHandler) Register(group *gin.RouterGroup) {
	h.ResourceHandler.Register(group)
	group.GET("/:id/stats", h.Stats)
}

func (h *AffiliateHandler) RegisterApplications(group *gin.RouterGroup) {
	h.applications.Register(group)
	group.POST("/:id/approve", h.Approve)
	group.POST("/:id/reject", h.Reject)
}

// Stats returns lead and payout totals for one affiliate
// GET /api/admin/affiliates/:id/stats
func (h *AffiliateHandler) Stats(c *gin.Context) {
	id, ok := parseID(c, "id", "affiliate")
	if !ok {
		return
	}
	stats, err := h.affiliateService.Stats(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "stats", stats)
}

// Approve creates an affiliate from a pending application
// POST /api/admin/affiliate-applications/:id/approve
func (h *AffiliateHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id", "application")
	if !ok {
		return
	}
	affiliate, err := h.affiliateService.ApproveApplication(id, middleware.AdminIDPtr(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "affiliate", affiliate)
}

// Reject closes a pending application
// POST /api/admin/affiliate-applications/:id/reject
func (h *AffiliateHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id", "application")
	if !ok {
		return
	}
	application, err := h.affiliateService.RejectApplication(id, middleware.AdminIDPtr(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "application", application)
}
