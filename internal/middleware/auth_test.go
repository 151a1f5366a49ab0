package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paystack-storefront/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-jwt-secret"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func run(header string) (string, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen string
	err := NewAuthMiddleware(secret).Authenticate(func(c echo.Context) error {
		seen = UserEmail(c)
		return nil
	})(c)
	return seen, err
}

func TestAuthenticate_ValidToken(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, []byte(secret), &Claims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	email, err := run("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
}

func TestAuthenticate_Rejects(t *testing.T) {
	expired := signed(t, jwt.SigningMethodHS256, []byte(secret), &Claims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), &Claims{Email: "ada@example.com"})
	wrongAlg := signed(t, jwt.SigningMethodHS512, []byte(secret), &Claims{Email: "ada@example.com"})

	tests := map[string]string{
		"missing header": "",
		"not bearer":     "Basic YWRhOnB3",
		"empty bearer":   "Bearer ",
		"garbage":        "Bearer not.a.jwt",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + wrongKey,
		"wrong alg":      "Bearer " + wrongAlg,
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(header)
			assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		})
	}
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(secret)
	e := echo.New()

	tests := []struct {
		name    string
		role    string
		wantErr error
	}{
		{name: "admin", role: RoleAdmin},
		{name: "customer", role: "", wantErr: apperr.ErrForbidden},
		{name: "other role", role: "support", wantErr: apperr.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signed(t, jwt.SigningMethodHS256, []byte(secret), &Claims{
				Email: "ops@example.com",
				Role:  tt.role,
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			c := e.NewContext(req, httptest.NewRecorder())

			reached := false
			err := m.Authenticate(m.RequireRole(RoleAdmin)(func(c echo.Context) error {
				reached = true
				return nil
			}))(c)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, reached)
				return
			}
			require.NoError(t, err)
			assert.True(t, reached)
		})
	}
}
