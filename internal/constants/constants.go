package constants

// Session and context keys shared between middleware and handlers.
const (
	SessionCookieName = "club_session"

	SessionKeyUserID    = "user_id"
	SessionKeyUserEmail = "user_email"

	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"

	OAuthStateCookie = "oauth_state"
	// OAuthStateMaxAge bounds how long a login attempt may take.
	OAuthStateMaxAge = 600
)

// Redirect targets for the auth callback.
const (
	RedirectDashboard  = "/dashboard"
	RedirectLogin      = "/login"
	RedirectAuthFailed = "/login?error=AuthFailed"
)
