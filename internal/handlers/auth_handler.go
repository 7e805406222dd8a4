package handlers

import (
	"net/http"

	"storefront-backend/internal/middleware"
	"storefront-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	adminService   AdminServiceInterface
	sessionService SessionServiceInterface
}

func NewAuthHandler(adminService AdminServiceInterface, sessionService SessionServiceInterface) *AuthHandler {
	return &AuthHandler{
		adminService:   adminService,
		sessionService: sessionService,
	}
}

// @Summary Start a guest cart session
// @Description Issue a session token; cart routes require it as a Bearer token
// @Tags session
// @Produce json
// @Success 201 {object} services.SessionResponse
// @Router /api/v1/session [post]
func (h *AuthHandler) StartSession(c *gin.Context) {
	session, err := h.sessionService.StartSession()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login request"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.adminService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Refresh access token
// @Description Exchange refresh token for new access token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body services.RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/admin/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.adminService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Logout admin
// @Description Invalidate the admin's refresh token
// @Tags admin
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /api/v1/admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.adminService.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// @Summary List admin accounts
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.AdminUser
// @Router /api/v1/admin/admins [get]
func (h *AuthHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.ListAdmins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, admins)
}

// @Summary Create an admin account
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.CreateAdminRequest true "New admin"
// @Success 201 {object} models.AdminUser
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/admin/admins [post]
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := h.adminService.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, admin)
}

// @Summary Delete an admin account
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/admin/admins/{id} [delete]
func (h *AuthHandler) DeleteAdmin(c *gin.Context) {
	if err := h.adminService.DeleteAdmin(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	router.POST("/session", h.StartSession)

	admin := router.Group("/admin")
	{
		admin.POST("/login", h.Login)
		admin.POST("/refresh", h.RefreshToken)

		// Protected routes
		protected := admin.Group("", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
		{
			protected.POST("/logout", h.Logout)
			protected.GET("/admins", h.ListAdmins)
			protected.POST("/admins", h.CreateAdmin)
			protected.DELETE("/admins/:id", h.DeleteAdmin)
		}
	}
}
