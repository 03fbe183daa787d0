package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"projectdesk/internal/constants"
	"projectdesk/internal/dto"
	apierrors "projectdesk/internal/errors"
	"projectdesk/internal/middleware"
	"projectdesk/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates an account and initializes the session. The session
// records the account's current security stamp; rotating the stamp later
// invalidates the session without touching the cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		apierrors.ServiceUnavailable(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyAccountID, account.ID)
	session.Set(constants.SessionKeySecurityStamp, account.SecurityStamp)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the acting identity.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	account, err := h.authService.GetAccount(identity.AccountID)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.ServiceUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}
