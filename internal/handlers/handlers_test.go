package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/internal/storage"
	"github.com/Adeel3330/agile-next-sub002/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("handlers-test-secret")
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	token  string
}

// newTestEnv wires the handlers against a private in-memory database the same
// way the server does, minus rate limiting and audit logging.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:h_" + name + "?mode=memory&cache=shared",
	}, false)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store, err := storage.NewLocalStore(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)

	settingsSvc := services.NewSettingsService(db, services.NewTTLSettingsCache(time.Minute))
	notifier := services.NewNotificationService(settingsSvc, nil, nil)
	pageSvc := services.NewPageService(db)
	blogSvc := services.NewBlogService(db)
	serviceSvc := services.NewServiceService(db)
	careerSvc := services.NewCareerService(db)
	teamSvc := services.NewTeamService(db)
	sliderSvc := services.NewSliderService(db)
	mediaSvc := services.NewMediaService(db, store, config.UploadConfig{MaxSizeMB: 1})
	contactSvc := services.NewContactService(db, notifier)
	bookingSvc := services.NewBookingService(db, notifier)
	resumeSvc := services.NewResumeService(db, mediaSvc, notifier)
	affiliateSvc := services.NewAffiliateService(db, 10, notifier)
	leadSvc := services.NewLeadService(db, affiliateSvc, notifier)
	authSvc := services.NewAuthService(db, &config.JWTConfig{Secret: "handlers-test-secret", ExpireHour: 1})
	require.NoError(t, authSvc.CreateAdminIfNotExists(config.AdminConfig{Email: "admin@example.com", Password: "password123"}))

	forms := NewFormHandler(contactSvc, bookingSvc, resumeSvc, leadSvc, affiliateSvc)
	public := NewPublicHandler(pageSvc, blogSvc, serviceSvc, careerSvc, teamSvc, sliderSvc)
	settings := NewSettingsHandler(settingsSvc)
	auth := NewAuthHandler(authSvc)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", auth.Login)
	api.GET("/auth/me", middleware.AuthRequired(), auth.Me)
	api.GET("/settings", settings.Get)
	api.GET("/pages/:slug", public.GetPage)
	api.GET("/blogs", public.ListBlogs)
	api.GET("/blogs/:slug", public.GetBlog)
	api.GET("/sliders", public.ListSliders)
	api.GET("/affiliates/validate/:code", forms.ValidateCode)
	api.POST("/contact", forms.SubmitContact)
	api.POST("/bookings", forms.SubmitBooking)
	api.POST("/resumes", forms.SubmitResume)
	api.POST("/leads", forms.SubmitLead)
	api.POST("/affiliates/apply", forms.ApplyAffiliate)

	admin := api.Group("/admin", middleware.AuthRequired())
	admin.PUT("/settings", settings.Update)
	NewPageHandler(pageSvc).Register(admin.Group("/pages"))
	NewResourceHandler[models.Blog](blogSvc, "blog", "blogs").Register(admin.Group("/blogs"))
	NewResourceHandler[models.Slider](sliderSvc, "slider", "sliders").Register(admin.Group("/sliders"))
	NewMediaHandler(mediaSvc).Register(admin.Group("/media"))
	contacts := NewResourceHandler[models.Contact](contactSvc, "contact", "contacts")
	contacts.NoCreate = true
	contacts.Register(admin.Group("/contacts"))
	affiliates := NewAffiliateHandler(affiliateSvc)
	affiliates.Register(admin.Group("/affiliates"))
	affiliates.RegisterApplications(admin.Group("/affiliate-applications"))

	token, err := utils.GenerateToken(1, "admin@example.com", "admin", 1)
	require.NoError(t, err)

	return &testEnv{db: db, router: r, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, authed bool) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return w.Code, out
}

func TestContactSubmit_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	form := map[string]interface{}{
		"name":    "Jane Roe",
		"email":   "jane@example.com",
		"message": "Please call me back about billing.",
	}

	code, body := env.do(t, http.MethodPost, "/api/contact", form, false)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	contact := body["contact"].(map[string]interface{})
	assert.NotZero(t, contact["id"])

	code, body = env.do(t, http.MethodPost, "/api/contact", form, false)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "already been submitted")

	var count int64
	require.NoError(t, env.db.Model(&models.Contact{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestContactSubmit_Validation(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/contact", map[string]interface{}{"email": "not-an-email"}, false)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("[1,2]"))
	req.Header.Set("Content-Type", "application/json")
	code, _ = env.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/admin/contacts", nil, false)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	req := httptest.NewRequest(http.MethodPost, "/api/admin/contacts", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Authorization", "Bearer "+env.token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "contacts have no admin create route")
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"email": "admin@example.com", "password": "wrong-password"}, false)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	code, body = env.do(t, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"email": "admin@example.com", "password": "password123"}, false)
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, body["refreshToken"])

	env.token = token
	code, body = env.do(t, http.MethodGet, "/api/auth/me", nil, true)
	require.Equal(t, http.StatusOK, code)
	admin := body["admin"].(map[string]interface{})
	assert.Equal(t, "admin@example.com", admin["email"])
	assert.NotContains(t, admin, "password")
}

func TestPages_CRUDVersionsAndPublicRead(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/admin/pages",
		map[string]interface{}{"title": "About Us", "content": "v1"}, true)
	require.Equal(t, http.StatusCreated, code)
	page := body["page"].(map[string]interface{})
	assert.Equal(t, "about-us", page["slug"])
	id := int(page["id"].(float64))
	base := "/api/admin/pages/" + strconv.Itoa(id)

	code, _ = env.do(t, http.MethodGet, "/api/pages/about-us", nil, false)
	assert.Equal(t, http.StatusNotFound, code, "drafts are not public")

	code, _ = env.do(t, http.MethodPut, base, map[string]interface{}{"content": "v2", "status": "published"}, true)
	require.Equal(t, http.StatusOK, code)

	code, body = env.do(t, http.MethodGet, "/api/pages/about-us", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v2", body["page"].(map[string]interface{})["content"])

	code, body = env.do(t, http.MethodGet, base+"/versions", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["total"])
	versions := body["versions"].([]interface{})
	oldest := versions[len(versions)-1].(map[string]interface{})
	oldestID := int(oldest["id"].(float64))

	code, body = env.do(t, http.MethodPost, base+"/versions/"+strconv.Itoa(oldestID)+"/restore", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v1", body["page"].(map[string]interface{})["content"])

	code, body = env.do(t, http.MethodGet, base+"/versions", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["total"])

	code, _ = env.do(t, http.MethodGet, base+"/versions/abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodDelete, base, nil, true)
	require.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, http.MethodDelete, base, nil, true)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = env.do(t, http.MethodGet, "/api/pages/about-us", nil, false)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBlogs_PublicListAndViews(t *testing.T) {
	env := newTestEnv(t)

	for _, b := range []map[string]interface{}{
		{"title": "Claim Denials 101", "status": "published"},
		{"title": "Draft Notes"},
	} {
		code, _ := env.do(t, http.MethodPost, "/api/admin/blogs", b, true)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := env.do(t, http.MethodGet, "/api/blogs?status=draft", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
	for _, key := range []string{"page", "limit", "totalPages"} {
		assert.Contains(t, body, key)
	}

	for i := 0; i < 2; i++ {
		code, _ = env.do(t, http.MethodGet, "/api/blogs/claim-denials-101", nil, false)
		require.Equal(t, http.StatusOK, code)
	}
	var blog models.Blog
	require.NoError(t, env.db.Where("slug = ?", "claim-denials-101").First(&blog).Error)
	assert.Equal(t, int64(2), blog.Views)

	code, _ = env.do(t, http.MethodGet, "/api/blogs/draft-notes", nil, false)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSettings_PublicReadAfterAdminUpdate(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/settings", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "settings")

	code, _ = env.do(t, http.MethodPut, "/api/admin/settings", map[string]interface{}{"siteName": "MedBill Pro"}, true)
	require.Equal(t, http.StatusOK, code)

	code, body = env.do(t, http.MethodGet, "/api/settings", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "MedBill Pro", body["settings"].(map[string]interface{})["siteName"])
}

func multipartRequest(t *testing.T, path, fileField, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMedia_UploadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	req := multipartRequest(t, "/api/admin/media", "file", "logo.png", png, map[string]string{"altText": "Logo"})
	req.Header.Set("Authorization", "Bearer "+env.token)
	code, body := env.serve(t, req)
	require.Equal(t, http.StatusCreated, code, "%v", body)
	media := body["media"].(map[string]interface{})
	assert.Equal(t, "image/png", media["mimeType"])
	assert.Equal(t, "general", media["folder"])

	req = multipartRequest(t, "/api/admin/media", "", "", nil, nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	code, _ = env.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodDelete, "/api/admin/media/"+strconv.Itoa(int(media["id"].(float64))), nil, true)
	assert.Equal(t, http.StatusOK, code)
}

func TestResumeSubmit_Multipart(t *testing.T) {
	env := newTestEnv(t)
	pdf := []byte("%PDF-1.4\n%test resume\n")

	req := multipartRequest(t, "/api/resumes", "resume", "cv.pdf", pdf, map[string]string{
		"name":  "Sam Lee",
		"email": "sam@example.com",
	})
	code, body := env.serve(t, req)
	require.Equal(t, http.StatusCreated, code, "%v", body)
	resume := body["resume"].(map[string]interface{})
	assert.NotEmpty(t, resume["resumeUrl"])

	req = multipartRequest(t, "/api/resumes", "", "", nil, map[string]string{
		"name":  "Sam Lee",
		"email": "sam@example.com",
	})
	code, body = env.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "resume file is required", body["message"])
}

func TestAffiliateFlow_ApplyApproveAndReferral(t *testing.T) {
	env := newTestEnv(t)
	application := map[string]interface{}{"name": "Pat Kim", "email": "pat@example.com"}

	code, body := env.do(t, http.MethodPost, "/api/affiliates/apply", application, false)
	require.Equal(t, http.StatusCreated, code, "%v", body)
	appID := int(body["application"].(map[string]interface{})["id"].(float64))

	code, _ = env.do(t, http.MethodPost, "/api/affiliates/apply", application, false)
	assert.Equal(t, http.StatusConflict, code)

	code, body = env.do(t, http.MethodPost, "/api/admin/affiliate-applications/"+strconv.Itoa(appID)+"/approve", nil, true)
	require.Equal(t, http.StatusCreated, code, "%v", body)
	affiliate := body["affiliate"].(map[string]interface{})
	affCode := affiliate["code"].(string)
	assert.True(t, strings.HasPrefix(affCode, "AFF-"))

	code, _ = env.do(t, http.MethodPost, "/api/admin/affiliate-applications/"+strconv.Itoa(appID)+"/approve", nil, true)
	assert.Equal(t, http.StatusConflict, code)

	code, body = env.do(t, http.MethodGet, "/api/affiliates/validate/"+strings.ToLower(affCode), nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["valid"])

	code, body = env.do(t, http.MethodGet, "/api/affiliates/validate/AFF-NOPE", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["valid"])

	code, _ = env.do(t, http.MethodPost, "/api/leads",
		map[string]interface{}{"name": "Clinic", "email": "clinic@example.com", "referralCode": "AFF-NOPE"}, false)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = env.do(t, http.MethodPost, "/api/leads",
		map[string]interface{}{"name": "Clinic", "email": "clinic@example.com", "referralCode": affCode}, false)
	require.Equal(t, http.StatusCreated, code, "%v", body)
	assert.Equal(t, affiliate["id"], body["lead"].(map[string]interface{})["affiliateId"])

	affID := strconv.Itoa(int(affiliate["id"].(float64)))
	code, body = env.do(t, http.MethodGet, "/api/admin/affiliates/"+affID+"/stats", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["stats"].(map[string]interface{})["totalLeads"])
}

func TestSliders_PublicShowsActiveOnly(t *testing.T) {
	env := newTestEnv(t)

	for _, s := range []map[string]interface{}{
		{"title": "Welcome", "sortOrder": 2},
		{"title": "Hidden", "isActive": false},
		{"title": "First", "sortOrder": 1},
	} {
		code, _ := env.do(t, http.MethodPost, "/api/admin/sliders", s, true)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := env.do(t, http.MethodGet, "/api/sliders", nil, false)
	require.Equal(t, http.StatusOK, code)
	sliders := body["sliders"].([]interface{})
	require.Len(t, sliders, 2)
	assert.Equal(t, "First", sliders[0].(map[string]interface{})["title"])
}
