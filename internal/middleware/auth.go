package middleware

import (
	"strings"

	"paystack-storefront/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userEmailKey = "user_email"
	userRoleKey  = "user_role"
)

// RoleAdmin marks back-office accounts that maintain the catalog and settle
// orders by hand.
const RoleAdmin = "admin"

// Claims carries the acting user. Email may be empty for accounts without
// one; payment initiation then fails with EMAIL_REQUIRED.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Authenticate accepts an HS256 bearer token signed with the configured
// secret and stores the email claim on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || tokenString == "" {
			return apperr.ErrUnauthorized
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
			return m.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return apperr.ErrUnauthorized
		}

		c.Set(userEmailKey, strings.TrimSpace(claims.Email))
		c.Set(userRoleKey, claims.Role)
		return next(c)
	}
}

// RequireRole must run after Authenticate.
func (m *AuthMiddleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserRole(c) != role {
				return apperr.ErrForbidden
			}
			return next(c)
		}
	}
}

// UserEmail returns the email of the authenticated user, or "".
func UserEmail(c echo.Context) string {
	email, _ := c.Get(userEmailKey).(string)
	return email
}

func UserRole(c echo.Context) string {
	role, _ := c.Get(userRoleKey).(string)
	return role
}
