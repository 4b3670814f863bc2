package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aghostraa/abcr-platform/internal/auth"
	"github.com/Aghostraa/abcr-platform/internal/constants"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/repository"
	"github.com/Aghostraa/abcr-platform/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubProvider drives the callback flow without an identity provider.
type stubProvider struct {
	identity    *auth.Identity
	exchangeErr error
}

func (s *stubProvider) AuthURL(state string) string {
	return "https://auth.example/authorize?state=" + state
}

func (s *stubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return &oauth2.Token{AccessToken: "stub-token"}, nil
}

func (s *stubProvider) FetchIdentity(ctx context.Context, token *oauth2.Token) (*auth.Identity, error) {
	return s.identity, nil
}

func (s *stubProvider) UpdateUserMetadata(ctx context.Context, token *oauth2.Token, metadata map[string]string) error {
	return nil
}

// stubRoleStore answers role lookups from a fixed map and records writes.
type stubRoleStore struct {
	roles map[string]models.Role
	sets  map[string]models.Role
}

func (s *stubRoleStore) GetUserRole(email string) (models.Role, error) {
	if role, ok := s.roles[email]; ok {
		return role, nil
	}
	return models.RoleVisitor, nil
}

func (s *stubRoleStore) SetUserRole(userID string, role models.Role) error {
	if s.sets == nil {
		s.sets = make(map[string]models.Role)
	}
	s.sets[userID] = role
	return nil
}

// AuthHandlerTestSuite defines the test suite for AuthHandler
type AuthHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	provider *stubProvider
	router   *gin.Engine
}

// SetupTest runs before each test
func (suite *AuthHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.AutoMigrate(&models.UserProfile{}))

	suite.provider = &stubProvider{}

	userRepo := repository.NewUserRepository(suite.db)
	authService := services.NewAuthService(suite.provider, userRepo, &stubRoleStore{})
	handler := NewAuthHandler(suite.provider, authService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	suite.router.Use(sessions.Sessions(constants.SessionCookieName, store))
	suite.router.GET("/api/auth/login", handler.Login)
	suite.router.GET("/api/auth/callback", handler.Callback)
	suite.router.POST("/api/auth/logout", handler.Logout)
}

// TearDownTest runs after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthHandlerTestSuite) serve(method, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, nil)
	suite.router.ServeHTTP(w, req)
	return w
}

// TestLogin_RedirectsToProvider tests the login redirect and state cookie
func (suite *AuthHandlerTestSuite) TestLogin_RedirectsToProvider() {
	w := suite.serve("GET", "/api/auth/login")

	assert.Equal(suite.T(), http.StatusTemporaryRedirect, w.Code)
	assert.Contains(suite.T(), w.Header().Get("Location"), "https://auth.example/authorize?state=")

	var stateCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.OAuthStateCookie {
			stateCookie = c
		}
	}
	suite.Require().NotNil(stateCookie)
	assert.NotEmpty(suite.T(), stateCookie.Value)
	assert.True(suite.T(), stateCookie.HttpOnly)
}

// TestCallback_NoCode tests the callback without an authorization code
func (suite *AuthHandlerTestSuite) TestCallback_NoCode() {
	w := suite.serve("GET", "/api/auth/callback")

	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login", w.Header().Get("Location"))
}

// TestCallback_ExchangeFailure tests a failed code exchange
func (suite *AuthHandlerTestSuite) TestCallback_ExchangeFailure() {
	suite.provider.exchangeErr = errors.New("invalid grant")

	w := suite.serve("GET", "/api/auth/callback?code=badcode")

	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login?error=AuthFailed", w.Header().Get("Location"))

	var count int64
	suite.Require().NoError(suite.db.Model(&models.UserProfile{}).Count(&count).Error)
	assert.EqualValues(suite.T(), 0, count)
}

// TestCallback_FirstLogin tests provisioning and the success redirect
func (suite *AuthHandlerTestSuite) TestCallback_FirstLogin() {
	suite.provider.identity = &auth.Identity{
		ID:    uuid.NewString(),
		Email: "fresh@club.example",
	}

	w := suite.serve("GET", "/api/auth/callback?code=goodcode")

	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/dashboard", w.Header().Get("Location"))

	var profile models.UserProfile
	suite.Require().NoError(suite.db.First(&profile, "id = ?", suite.provider.identity.ID).Error)
	assert.Equal(suite.T(), "fresh@club.example", profile.Email)
	assert.Equal(suite.T(), models.RoleVisitor, profile.Role)

	// The session cookie is issued on success.
	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			sessionCookie = c
		}
	}
	assert.NotNil(suite.T(), sessionCookie)
}

// TestCallback_RepeatLogin tests that a second login does not duplicate rows
func (suite *AuthHandlerTestSuite) TestCallback_RepeatLogin() {
	suite.provider.identity = &auth.Identity{
		ID:    uuid.NewString(),
		Email: "repeat@club.example",
	}

	first := suite.serve("GET", "/api/auth/callback?code=goodcode")
	assert.Equal(suite.T(), "/dashboard", first.Header().Get("Location"))

	second := suite.serve("GET", "/api/auth/callback?code=goodcode")
	assert.Equal(suite.T(), "/dashboard", second.Header().Get("Location"))

	var count int64
	suite.Require().NoError(suite.db.Model(&models.UserProfile{}).Count(&count).Error)
	assert.EqualValues(suite.T(), 1, count)
}

// TestCallback_StateMismatch tests a callback whose state does not match the cookie
func (suite *AuthHandlerTestSuite) TestCallback_StateMismatch() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/callback?code=goodcode&state=attacker", nil)
	req.AddCookie(&http.Cookie{Name: constants.OAuthStateCookie, Value: "issued-state"})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login?error=AuthFailed", w.Header().Get("Location"))
}

// TestLogout tests session teardown
func (suite *AuthHandlerTestSuite) TestLogout() {
	w := suite.serve("POST", "/api/auth/logout")

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Logged out successfully", response["message"])
}

// TestSuite runs the test suite
func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
