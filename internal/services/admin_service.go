package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repositories"
	"storefront-backend/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AdminService struct {
	adminRepo  repositories.AdminRepository
	jwtManager *auth.JWTManager
	cache      Cache
	logger     *zap.Logger
}

func NewAdminService(adminRepo repositories.AdminRepository, jwtManager *auth.JWTManager, cache Cache, logger *zap.Logger) *AdminService {
	return &AdminService{
		adminRepo:  adminRepo,
		jwtManager: jwtManager,
		cache:      cache,
		logger:     logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	TokenType    string            `json:"token_type"`
	ExpiresIn    int               `json:"expires_in"` // seconds until access token expires
	Admin        *models.AdminUser `json:"admin,omitempty"`
}

// Refresh token storage methods
func refreshTokenKey(adminID string) string {
	return fmt.Sprintf("refresh_token:%s", adminID)
}

func (s *AdminService) storeRefreshToken(ctx context.Context, adminID, refreshToken string) error {
	return s.cache.Set(ctx, refreshTokenKey(adminID), refreshToken, s.jwtManager.RefreshExpiry())
}

func (s *AdminService) getStoredRefreshToken(ctx context.Context, adminID string) (string, error) {
	var token string
	err := s.cache.Get(ctx, refreshTokenKey(adminID), &token)
	return token, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AdminService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(admin.ID.String(), auth.RoleAdmin, admin.Email)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, admin.ID.String(), tokenPair.RefreshToken); err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID.String()))

	return &AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtManager.AccessExpiry().Seconds()),
		Admin:        admin,
	}, nil
}

// Refresh issues a new access token for the refresh token last handed out at
// login. Tokens revoked by Logout are rejected.
func (s *AdminService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != auth.RefreshToken {
		return nil, ErrInvalidToken
	}

	stored, err := s.getStoredRefreshToken(ctx, claims.UserID)
	if err != nil || stored != refreshToken {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtManager.AccessExpiry().Seconds()),
	}, nil
}

func (s *AdminService) Logout(ctx context.Context, adminID string) error {
	return s.cache.Delete(ctx, refreshTokenKey(adminID))
}

func (s *AdminService) CreateAdmin(ctx context.Context, req *CreateAdminRequest) (*models.AdminUser, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &models.AdminUser{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin created", zap.String("admin_id", admin.ID.String()))
	return admin, nil
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]models.AdminUser, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []models.AdminUser{}
	}
	return admins, nil
}

// DeleteAdmin removes another admin account and revokes its refresh token.
func (s *AdminService) DeleteAdmin(ctx context.Context, actingAdminID, adminID string) error {
	id, err := uuid.Parse(adminID)
	if err != nil {
		return ErrInvalidAdminID
	}
	if adminID == actingAdminID {
		return ErrCannotDeleteSelf
	}

	if err := s.adminRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	if err := s.Logout(ctx, adminID); err != nil {
		s.logger.Warn("failed to revoke refresh token", zap.String("admin_id", adminID), zap.Error(err))
	}
	s.logger.Info("admin deleted", zap.String("admin_id", adminID), zap.String("deleted_by", actingAdminID))
	return nil
}

// EnsureBootstrapAdmin creates the first admin account when none exists.
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error {
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if email == "" || password == "" {
		s.logger.Warn("no admin accounts exist and no bootstrap credentials are configured")
		return nil
	}

	admin, err := s.CreateAdmin(ctx, &CreateAdminRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.logger.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}
