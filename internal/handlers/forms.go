package handlers

import (
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

// resumeFormFields are the multipart fields read from a resume submission.
var resumeFormFields = []string{"name", "email", "phone", "careerId", "position", "coverLetter"}

// FormHandler accepts the public intake forms.
type FormHandler struct {
	contacts   *services.ContactService
	bookings   *services.BookingService
	resumes    *services.ResumeService
	leads      *services.LeadService
	affiliates *services.AffiliateService
}

func NewFormHandler(
	contacts *services.ContactService,
	bookings *services.BookingService,
	resumes *services.ResumeService,
	leads *services.LeadService,
	affiliates *services.AffiliateService,
) *FormHandler {
	return &FormHandler{
		contacts:   contacts,
		bookings:   bookings,
		resumes:    resumes,
		leads:      leads,
		affiliates: affiliates,
	}
}

// SubmitContact stores a contact message. A second live message from the same
// email is rejected.
// POST /api/contact
func (h *FormHandler) SubmitContact(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	contact, err := h.contacts.Submit(payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "contact", contact)
}

// SubmitBooking stores a consultation request
// POST /api/bookings
func (h *FormHandler) SubmitBooking(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	booking, err := h.bookings.Submit(payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "booking", booking)
}

// SubmitResume stores a job application with its CV
// POST /api/resumes (multipart)
func (h *FormHandler) SubmitResume(c *gin.Context) {
	in, closeFile, ok := uploadFromForm(c, "resume")
	if !ok {
		return
	}
	defer closeFile()

	payload := make(map[string]interface{}, len(resumeFormFields))
	for _, field := range resumeFormFields {
		if v, exists := c.GetPostForm(field); exists {
			payload[field] = v
		}
	}

	resume, err := h.resumes.Submit(c.Request.Context(), payload, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "resume", resume)
}

// SubmitLead stores a lead, attributed to an affiliate when referralCode is set
// POST /api/leads
func (h *FormHandler) SubmitLead(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	lead, err := h.leads.Submit(payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "lead", lead)
}

// ApplyAffiliate stores an affiliate program application
// POST /api/affiliates/apply
func (h *FormHandler) ApplyAffiliate(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	application, err := h.affiliates.Apply(payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "application", application)
}

// ValidateCode reports whether a referral code belongs to an active affiliate
// GET /api/affiliates/validate/:code
func (h *FormHandler) ValidateCode(c *gin.Context) {
	affiliate, valid, err := h.affiliates.ValidateCode(c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	fields := gin.H{"valid": valid}
	if valid {
		fields["code"] = affiliate.Code
		fields["name"] = affiliate.Name
	}
	response.Success(c, fields)
}
