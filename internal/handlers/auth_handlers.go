package handlers

import (
	"errors"
	"net/http"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Login: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	authResp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", err.Error()))
		} else {
			utils.LogError(err, "Login: Error from authService.Login")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentUser retrieves the profile of the currently authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userIDRaw, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}
	userID, ok := userIDRaw.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User ID format incorrect.", "Invalid user ID format in context"))
		return
	}

	user, err := h.authService.GetUserProfile(userID)
	if err != nil {
		utils.LogError(err, "GetCurrentUser: Error from authService.GetUserProfile for userID "+utils.Int64ToStr(userID))
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User profile not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve user profile.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout handles user logout. With stateless tokens this only acknowledges.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully. Please discard your token."})
}
