package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theweboftrust/wot.id/core"
	"github.com/theweboftrust/wot.id/service"
)

// SessionCookieName is the cookie the access token is mirrored into.
const SessionCookieName = "wotid_session"

const accessTokenSeconds = 300 // 5 minutes

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// rejectAuth answers every authentication failure with the same body and
// status so a caller cannot tell an unknown identity from an expired
// challenge, a bad signature or a downstream outage. The specific cause
// stays in the server log.
func rejectAuth(c *gin.Context, err error) {
	log.Printf("authentication failed: %v", err)
	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
}

// InitiateChallenge handles the challenge issuance request.
func (h *AuthHandlers) InitiateChallenge(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	did, challenge, err := h.authService.Challenge(c.Request.Context(), req.Email)
	if err != nil {
		rejectAuth(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"did":       did,
		"challenge": challenge,
	})
}

// Login handles the completed challenge response.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Strategy  string `json:"strategy"`
		Email     string `json:"email"` // legacy identity reference, display only
		DID       string `json:"did" binding:"required"`
		Challenge string `json:"challenge" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	accessToken, refreshToken, err := h.authService.Login(c.Request.Context(), core.Credentials{
		Strategy:  req.Strategy,
		Email:     req.Email,
		DID:       req.DID,
		Challenge: req.Challenge,
		Signature: req.Signature,
	})
	if err != nil {
		rejectAuth(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, accessToken, accessTokenSeconds, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "Bearer",
		"expires_in":    accessTokenSeconds,
	})
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	accessToken, refreshToken, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		rejectAuth(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, accessToken, accessTokenSeconds, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "Bearer",
		"expires_in":    accessTokenSeconds,
	})
}

// Logout handles session logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		rejectAuth(c, err)
		return
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns information about the authenticated user
func (h *AuthHandlers) Me(c *gin.Context) {
	session, exists := c.Get(contextSessionKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found in context"})
		return
	}
	s := session.(*core.Session)

	c.JSON(http.StatusOK, gin.H{
		"did":   s.DID,
		"email": s.Email,
		"name":  s.Name,
	})
}

// Authorize checks if a user is authorized
func (h *AuthHandlers) Authorize(c *gin.Context) {
	// The auth middleware already validated the token.
	did, exists := c.Get(contextDIDKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"did":        did,
	})
}

// Health reports process liveness.
func (h *AuthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
