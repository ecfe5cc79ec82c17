package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"github.com/onetoc/onetoc-backend/middleware"
	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/services"
)

const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
	clock       clockwork.Clock
}

func NewAuthHandler(authService services.AuthService, jwtSecret string, clock clockwork.Clock) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
		clock:       clock,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Username == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("username and password are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Token mirrors the SPA's POST /api/token: credentials in, access and
// refresh JWT pair out.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Username == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("username and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	access, refresh, err := h.issueTokenPair(user)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{"access": access, "refresh": refresh, "user": user}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Refresh exchanges a valid refresh token for a new access token. A failed
// exchange is terminal: the client clears credentials and re-authenticates.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Refresh string `json:"refresh"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(input.Refresh, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		unauthorizedResponse(w, r, services.ErrAuthInvalidToken.Error())
		return
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		unauthorizedResponse(w, r, "token is not a refresh token")
		return
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		unauthorizedResponse(w, r, services.ErrAuthInvalidToken.Error())
		return
	}
	user, err := h.authService.GetUserByID(r.Context(), int(userIDFloat))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	access, err := h.signToken(user, accessTokenTTL, "")
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"access": access}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Me returns the account behind the presented access token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) issueTokenPair(user *models.User) (string, string, error) {
	access, err := h.signToken(user, accessTokenTTL, "")
	if err != nil {
		return "", "", err
	}
	refresh, err := h.signToken(user, refreshTokenTTL, "refresh")
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (h *AuthHandler) signToken(user *models.User, ttl time.Duration, typ string) (string, error) {
	now := h.clock.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	if typ != "" {
		claims["typ"] = typ
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
