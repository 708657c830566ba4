package handler

import (
	"errors"
	"log"
	"net/http"

	"user_auth_api/internal/model"
	"user_auth_api/internal/service"

	"github.com/gin-gonic/gin"
)

// TokenHistoryHandler exposes the token history endpoints
type TokenHistoryHandler struct {
	service service.TokenHistoryService
}

// NewTokenHistoryHandler creates a new TokenHistoryHandler
func NewTokenHistoryHandler(s service.TokenHistoryService) *TokenHistoryHandler {
	return &TokenHistoryHandler{service: s}
}

func (h *TokenHistoryHandler) GetMyHistory(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	records, err := h.service.ListOwn(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error listing token history: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to retrieve token history")
		return
	}

	respondSuccess(c, http.StatusOK, "Token history retrieved successfully", records)
}

func (h *TokenHistoryHandler) GetAllHistory(c *gin.Context) {
	role, err := getAuthUserRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	records, err := h.service.ListAll(c.Request.Context(), role)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondError(c, http.StatusForbidden, err.Error())
			return
		}
		log.Printf("Error listing all token history: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to retrieve token history")
		return
	}

	respondSuccess(c, http.StatusOK, "Token history retrieved successfully", records)
}

func (h *TokenHistoryHandler) CreateHistory(c *gin.Context) {
	var req model.CreateTokenHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, http.StatusBadRequest, "Invalid token history data", err)
		return
	}

	record, err := h.service.Append(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("Error creating token history record: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to create token history record")
		return
	}

	respondSuccess(c, http.StatusCreated, "Token history record created", record)
}

// RegisterTokenHistoryRoutes registers token history routes
func (h *TokenHistoryHandler) RegisterTokenHistoryRoutes(rg *gin.RouterGroup, jwtAuthMW, adminMW gin.HandlerFunc) {
	historyGroup := rg.Group("/tokens/history", jwtAuthMW)
	{
		historyGroup.GET("", h.GetMyHistory)
		historyGroup.GET("/all", adminMW, h.GetAllHistory)
		historyGroup.POST("", adminMW, h.CreateHistory)
	}
}
