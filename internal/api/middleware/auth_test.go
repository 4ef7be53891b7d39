package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

func setupAuthRouter(authService *MockAuthService) (*gin.Engine, *authz.Actor) {
	gin.SetMode(gin.TestMode)
	captured := &authz.Actor{}

	router := gin.New()
	router.Use(Authenticate(authService))
	router.GET("/probe", func(c *gin.Context) {
		*captured = ActorFromContext(c)
		c.Status(http.StatusOK)
	})
	return router, captured
}

func TestAuthenticate_NoHeaderIsAnonymous(t *testing.T) {
	router, actor := setupAuthRouter(new(MockAuthService))

	req, _ := http.NewRequest("GET", "/probe", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, actor.Authenticated)
	assert.Equal(t, authz.Anonymous, *actor)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	router, _ := setupAuthRouter(new(MockAuthService))

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		req, _ := http.NewRequest("GET", "/probe", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	authService := new(MockAuthService)
	router, _ := setupAuthRouter(authService)

	authService.On("ValidateToken", "bad-token").Return(nil, errors.New("token is malformed"))

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ValidTokenBuildsActor(t *testing.T) {
	authService := new(MockAuthService)
	router, actor := setupAuthRouter(authService)

	token := &jwt.Token{
		Claims: jwt.MapClaims{
			"user_id":   "user-123",
			"username":  "alice",
			"role":      models.RoleModerator,
			"superuser": true,
		},
		Valid: true,
	}
	authService.On("ValidateToken", "good-token").Return(token, nil)

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, actor.Authenticated)
	assert.Equal(t, "user-123", actor.ID)
	assert.Equal(t, models.RoleModerator, actor.Role)
	assert.True(t, actor.Superuser)
}
