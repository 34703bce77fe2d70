package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solar-banking/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID int, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := &middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthentication(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUserID int
	}{
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", authHeader: "token-without-scheme", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
		{name: "expired token", wantStatus: http.StatusUnauthorized},
		{name: "valid token", wantStatus: http.StatusOK, wantUserID: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.authHeader
			switch tt.name {
			case "expired token":
				header = "Bearer " + signToken(t, 42, "customer", -time.Minute)
			case "valid token":
				header = "Bearer " + signToken(t, 42, "customer", time.Hour)
			}

			var gotUserID int
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = middleware.GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/debtList/selfMade", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			middleware.Authentication(testSecret, zerolog.Nop())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{name: "customer allowed", role: "customer", allowed: []string{"customer"}, wantStatus: http.StatusOK},
		{name: "admin rejected on customer route", role: "admin", allowed: []string{"customer"}, wantStatus: http.StatusForbidden},
		{name: "one of several roles", role: "admin", allowed: []string{"customer", "admin"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/debtList/selfMade", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, 42, tt.role, time.Hour))
			rec := httptest.NewRecorder()

			chain := middleware.Authentication(testSecret, zerolog.Nop())(middleware.RequireRole(tt.allowed...)(next))
			chain.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
