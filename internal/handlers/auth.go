package handlers

import (
	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func tokenFields(result *services.LoginResult) gin.H {
	return gin.H{
		"token":            result.AccessToken,
		"expiresAt":        result.AccessExpireAt,
		"refreshToken":     result.RefreshToken,
		"refreshExpiresAt": result.RefreshExpireAt,
		"admin":            result.Admin,
	}
}

// Login handles admin login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	result, err := h.authService.Login(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tokenFields(result))
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refreshToken is required")
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tokenFields(result))
}

// Logout revokes the given refresh token. The access token simply expires.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		if err := h.authService.RevokeRefreshToken(req.RefreshToken); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.Message(c, "logged out successfully")
}

// Me returns the current admin
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	admin, err := h.authService.GetAdmin(middleware.GetAdminID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "admin", admin)
}

// ChangePassword replaces the current admin's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "currentPassword and a newPassword of at least 8 characters are required")
		return
	}
	if err := h.authService.ChangePassword(middleware.GetAdminID(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "password changed successfully")
}
