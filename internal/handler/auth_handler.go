package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// AuthHandler handles user signup, login and profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	user, token, err := h.authService.Register(&req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Account created", gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{"user": user, "token": token})
}

// GetMe handles GET /v1/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.GetProfile(c.GetInt("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Profile retrieved", user)
}

// UpdateMe handles PUT /v1/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(c.GetInt("user_id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Profile updated", user)
}

func (h *AuthHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrEmailTaken:
		utils.Error(c, 409, "EMAIL_TAKEN", "An account with this email already exists")
	case utils.ErrInvalidCredentials:
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
	case utils.ErrAccountInactive:
		utils.Error(c, 403, "ACCOUNT_INACTIVE", "Account is deactivated")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
