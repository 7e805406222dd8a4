package handlers

import (
	"context"

	"storefront-backend/internal/models"
	"storefront-backend/internal/services"
)

// AdminServiceInterface defines the contract for admin accounts
type AdminServiceInterface interface {
	Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	Logout(ctx context.Context, adminID string) error
	CreateAdmin(ctx context.Context, req *services.CreateAdminRequest) (*models.AdminUser, error)
	ListAdmins(ctx context.Context) ([]models.AdminUser, error)
	DeleteAdmin(ctx context.Context, actingAdminID, adminID string) error
}

// SessionServiceInterface defines the contract for guest cart sessions
type SessionServiceInterface interface {
	StartSession() (*services.SessionResponse, error)
}
