package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"user_auth_api/internal/middleware"
	"user_auth_api/internal/model"
	"user_auth_api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService  service.AuthService
	resetService service.PasswordResetService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, resetService service.PasswordResetService) *AuthHandler {
	return &AuthHandler{authService: authService, resetService: resetService}
}

// publicUser strips the user down to the fields safe to return
func publicUser(u *model.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"phone":      u.Phone,
		"role":       u.Role,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, http.StatusBadRequest, "Invalid registration data", err)
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyRegistered) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		log.Printf("Error during registration: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	data := publicUser(user)
	data["token"] = token
	respondSuccess(c, http.StatusCreated, "Account created successfully", data)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, http.StatusBadRequest, "Invalid login data", err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("Error during login: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	data := publicUser(user)
	data["token"] = token
	respondSuccess(c, http.StatusOK, "Login successful", data)
}

// VerifyToken checks the presented bearer token and returns its owner's profile
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		respondError(c, http.StatusUnauthorized, "Bearer token required")
		return
	}

	user, err := h.authService.VerifyToken(c.Request.Context(), parts[1])
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("Error during token verification: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to verify token")
		return
	}

	respondSuccess(c, http.StatusOK, "Token is valid", publicUser(user))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	email, err := h.resetService.InitiateReset(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Email not found")
		case errors.Is(err, service.ErrResetCooldown):
			respondError(c, http.StatusTooManyRequests, err.Error())
		default:
			log.Printf("Error during password reset initiation: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to process reset request")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "Reset request accepted, please check your email", gin.H{"email": email})
}

// ResetPassword consumes a reset code (query parameter) and sets the new password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		respondError(c, http.StatusBadRequest, "Verification code is required")
		return
	}

	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	email, err := h.resetService.CompleteReset(c.Request.Context(), code, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetCodeInvalid), errors.Is(err, service.ErrResetCodeExpired):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		default:
			log.Printf("Error during password reset completion: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to reset password")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "Password changed successfully", gin.H{"email": email})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	token, _ := c.Get(middleware.AuthTokenKey)
	tokenString, _ := token.(string)

	if err := h.authService.Logout(c.Request.Context(), userID, tokenString); err != nil {
		log.Printf("Error during logout: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to logout")
		return
	}

	respondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, jwtAuthMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-token", h.VerifyToken)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.PATCH("/forgot-password/verify", h.ResetPassword)
		authGroup.POST("/logout", jwtAuthMW, h.Logout)
	}
}
