package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/services"
)

const testJWTSecret = "test-secret"

type fakeAuthService struct {
	user *models.User
}

func (f *fakeAuthService) Register(_ context.Context, input services.RegisterInput) (*models.User, error) {
	return &models.User{ID: 2, Username: input.Username, Role: models.RoleAnalyst}, nil
}

func (f *fakeAuthService) Login(_ context.Context, input services.LoginInput) (*models.User, error) {
	if input.Username != f.user.Username || input.Password != "secret123" {
		return nil, services.ErrAuthInvalidCredentials
	}
	return f.user, nil
}

func (f *fakeAuthService) GetUserByID(_ context.Context, id int) (*models.User, error) {
	if id != f.user.ID {
		return nil, services.ErrUserNotFound
	}
	return f.user, nil
}

func newAuthTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	authService := &fakeAuthService{
		user: &models.User{ID: 7, Username: "recorder", Role: models.RoleAnalyst},
	}
	handler := NewAuthHandler(authService, testJWTSecret, clockwork.NewFakeClockAt(time.Now()))

	router := chi.NewRouter()
	router.Post("/api/token", handler.Token)
	router.Post("/api/token/refresh", handler.Refresh)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func tokenPair(t *testing.T, server *httptest.Server) (string, string) {
	t.Helper()
	resp := postJSON(t, server.URL+"/api/token", map[string]string{
		"username": "recorder",
		"password": "secret123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Access)
	require.NotEmpty(t, body.Refresh)
	return body.Access, body.Refresh
}

func TestTokenRefreshRoundTrip(t *testing.T) {
	server := newAuthTestServer(t)
	_, refresh := tokenPair(t, server)

	resp := postJSON(t, server.URL+"/api/token/refresh", map[string]string{"refresh": refresh})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(body.Access, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, string(models.RoleAnalyst), claims["role"])
	// Свежевыданный access не помечен как refresh.
	assert.NotContains(t, claims, "typ")
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	server := newAuthTestServer(t)
	access, _ := tokenPair(t, server)

	resp := postJSON(t, server.URL+"/api/token/refresh", map[string]string{"refresh": access})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRejectsMalformedToken(t *testing.T) {
	server := newAuthTestServer(t)

	resp := postJSON(t, server.URL+"/api/token/refresh", map[string]string{"refresh": "not-a-token"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
