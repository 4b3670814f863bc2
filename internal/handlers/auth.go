package handlers

import (
	"net/http"

	"github.com/Aghostraa/abcr-platform/internal/auth"
	"github.com/Aghostraa/abcr-platform/internal/constants"
	"github.com/Aghostraa/abcr-platform/internal/dto"
	apierrors "github.com/Aghostraa/abcr-platform/internal/errors"
	"github.com/Aghostraa/abcr-platform/internal/middleware"
	"github.com/Aghostraa/abcr-platform/internal/services"
	"github.com/Aghostraa/abcr-platform/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates the OAuth login flow and session management.
type AuthHandler struct {
	provider    auth.Provider
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider auth.Provider, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		provider:    provider,
		authService: authService,
	}
}

// Login redirects the browser to the identity provider's authorization page
// with a single-use state cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := utils.GenerateStateToken()
	if err != nil {
		apierrors.InternalError(c, "Failed to start login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.OAuthStateCookie, state, constants.OAuthStateMaxAge, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthURL(state))
}

// Callback completes the login flow: exchange the code for a session,
// provision the profile, and redirect. No code redirects to /login; any
// failure redirects to /login?error=AuthFailed; success to /dashboard.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, constants.RedirectLogin)
		return
	}

	// The state cookie is only present for logins this server initiated; a
	// mismatch is treated like any other auth failure.
	if stateCookie, err := c.Cookie(constants.OAuthStateCookie); err == nil && stateCookie != "" {
		c.SetCookie(constants.OAuthStateCookie, "", -1, "/", "", false, true)
		if c.Query("state") != stateCookie {
			c.Redirect(http.StatusFound, constants.RedirectAuthFailed)
			return
		}
	}

	token, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusFound, constants.RedirectAuthFailed)
		return
	}

	profile, err := h.authService.Provision(c.Request.Context(), token)
	if err != nil {
		c.Redirect(http.StatusFound, constants.RedirectAuthFailed)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, profile.ID)
	session.Set(constants.SessionKeyUserEmail, profile.Email)
	if err := session.Save(); err != nil {
		c.Redirect(http.StatusFound, constants.RedirectAuthFailed)
		return
	}

	c.Redirect(http.StatusFound, constants.RedirectDashboard)
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

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserProfileDTO(*profile))
}
