package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/utils"
	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"gorm.io/gorm"
)

const defaultRefreshHours = 720

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg, now: time.Now}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	Admin           *models.Admin
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

var errInvalidCredentials = response.NewUnauthorized("invalid email or password")

// Login checks the credentials and issues an access and a refresh token.
func (s *AuthService) Login(req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var admin models.Admin
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, translateError(err, "admin")
	}
	if !utils.CheckPassword(req.Password, admin.Password) {
		return nil, errInvalidCredentials
	}
	if !admin.IsActive {
		return nil, response.NewUnauthorized("account is disabled")
	}

	result, err := s.issue(s.db, &admin, clientIP, userAgent)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.db.Model(&admin).UpdateColumn("last_login", now).Error; err != nil {
		logger.Warn().Err(err).Uint("admin_id", admin.ID).Msg("[Auth] failed to record last login")
	}
	admin.LastLogin = &now
	return result, nil
}

// Refresh rotates a refresh token: the presented token is revoked and linked
// to its replacement.
func (s *AuthService) Refresh(refreshToken, clientIP, userAgent string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, response.NewUnauthorized("refresh token required")
	}

	var result *LoginResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		if err := tx.Where("token_hash = ?", hashRefreshToken(refreshToken)).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewUnauthorized("invalid refresh token")
			}
			return err
		}
		if stored.RevokedAt != nil {
			return response.NewUnauthorized("refresh token revoked")
		}
		if s.now().After(stored.ExpiresAt) {
			return response.NewUnauthorized("refresh token expired")
		}

		var admin models.Admin
		if err := tx.First(&admin, stored.AdminID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewUnauthorized("account not found")
			}
			return err
		}
		if !admin.IsActive {
			return response.NewUnauthorized("account is disabled")
		}

		issued, newID, err := s.issueWithID(tx, &admin, clientIP, userAgent)
		if err != nil {
			return err
		}
		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked_at IS NULL", stored.ID).
			Updates(map[string]interface{}{
				"revoked_at":           s.now(),
				"replaced_by_token_id": newID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return response.NewUnauthorized("refresh token revoked")
		}
		result = issued
		return nil
	})
	if err != nil {
		return nil, translateError(err, "refresh token")
	}
	return result, nil
}

// RevokeRefreshToken is logout. Unknown tokens are ignored.
func (s *AuthService) RevokeRefreshToken(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	err := s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashRefreshToken(refreshToken)).
		Update("revoked_at", s.now()).Error
	if err != nil {
		return translateError(err, "refresh token")
	}
	return nil
}

func (s *AuthService) issue(tx *gorm.DB, admin *models.Admin, clientIP, userAgent string) (*LoginResult, error) {
	result, _, err := s.issueWithID(tx, admin, clientIP, userAgent)
	return result, err
}

func (s *AuthService) issueWithID(tx *gorm.DB, admin *models.Admin, clientIP, userAgent string) (*LoginResult, uint, error) {
	accessHours := s.jwtConfig.ExpireHour
	if accessHours <= 0 {
		accessHours = 24
	}
	refreshHours := s.jwtConfig.RefreshExpireHour
	if refreshHours <= 0 {
		refreshHours = defaultRefreshHours
	}

	token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role, accessHours)
	if err != nil {
		return nil, 0, response.NewServerError("failed to sign token", err)
	}
	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, 0, response.NewServerError("failed to generate refresh token", err)
	}

	now := s.now()
	record := models.RefreshToken{
		AdminID:     admin.ID,
		TokenHash:   refreshHash,
		ExpiresAt:   now.Add(time.Duration(refreshHours) * time.Hour),
		CreatedByIP: clientIP,
		UserAgent:   truncate(userAgent, 255),
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, 0, err
	}

	return &LoginResult{
		AccessToken:     token,
		AccessExpireAt:  now.Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: record.ExpiresAt,
		Admin:           admin,
	}, record.ID, nil
}

func generateRefreshToken() (token string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(randomBytes)
	return token, hashRefreshToken(token), nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (s *AuthService) GetAdmin(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.First(&admin, id).Error; err != nil {
		return nil, translateError(err, "admin")
	}
	return &admin, nil
}

// CreateAdminIfNotExists creates the bootstrap account from config when the
// admins table is empty.
func (s *AuthService) CreateAdminIfNotExists(cfg config.AdminConfig) error {
	var count int64
	if err := s.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn().Msg("[Auth] no admin account exists and no bootstrap credentials are configured")
		return nil
	}

	hashed, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	admin := models.Admin{
		Name:     name,
		Email:    strings.ToLower(strings.TrimSpace(cfg.Email)),
		Password: hashed,
		Role:     "admin",
		IsActive: true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info().Str("email", admin.Email).Msg("[Auth] created bootstrap admin account")
	return nil
}

// ChangePassword replaces the password and revokes every outstanding refresh
// token of the admin.
func (s *AuthService) ChangePassword(adminID uint, req *ChangePasswordRequest) error {
	admin, err := s.GetAdmin(adminID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(req.CurrentPassword, admin.Password) {
		return response.NewBadRequest("current password is incorrect")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return response.NewServerError("failed to hash password", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(admin).UpdateColumn("password", hashed).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("admin_id = ? AND revoked_at IS NULL", adminID).
			Update("revoked_at", s.now()).Error
	})
	if err != nil {
		return translateError(err, "admin")
	}
	return nil
}
