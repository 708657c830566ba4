package handler

import (
	"errors"
	"log"
	"net/http"

	"user_auth_api/internal/model"
	"user_auth_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles profile requests for the authenticated user
type ProfileHandler struct {
	service service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(s service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, history, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("Error getting profile: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}

	data := publicUser(user)
	data["token_history"] = history
	respondSuccess(c, http.StatusOK, "Profile retrieved successfully", data)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, http.StatusBadRequest, "Invalid profile data", err)
		return
	}
	if req.Email == nil && req.FullName == nil && req.Phone == nil {
		respondError(c, http.StatusBadRequest, "At least one field must be provided")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			respondError(c, http.StatusConflict, "Email is already used by another user")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			log.Printf("Error updating profile: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "Profile updated successfully", publicUser(user))
}

func (h *ProfileHandler) UpdatePassword(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req model.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, http.StatusBadRequest, "Invalid password data", err)
		return
	}

	if err := h.service.UpdatePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongOldPassword):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			log.Printf("Error updating password: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to update password")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "Password updated successfully", nil)
}

// RegisterProfileRoutes registers profile routes, all behind JWT auth
func (h *ProfileHandler) RegisterProfileRoutes(rg *gin.RouterGroup, jwtAuthMW gin.HandlerFunc) {
	profileGroup := rg.Group("/profile", jwtAuthMW)
	{
		profileGroup.GET("", h.GetProfile)
		profileGroup.PATCH("", h.UpdateProfile)
		profileGroup.PATCH("/password", h.UpdatePassword)
	}
}
