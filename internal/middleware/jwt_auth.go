package middleware

import (
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
)

// Context keys under which the authenticated actor is stored.
const (
	ContextUserID = "userID"
	ContextRole   = "userRole"
)

// Secret returns the JWT signing secret shared with the auth handler.
func Secret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "supersecretjwtkey"
}

// JWTAuthMiddleware checks for a valid JWT and puts the actor's id and
// role into the request context.
func JWTAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperrors.Unauthenticated("missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return apperrors.Unauthenticated("invalid Authorization header format")
			}
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperrors.Unauthenticated("unexpected signing method")
				}
				return []byte(Secret()), nil
			})
			if err != nil || !token.Valid {
				return apperrors.Unauthenticated("invalid token")
			}
			if claims.UserID == 0 {
				return apperrors.Unauthenticated("token carries no user identity")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)

			return next(c)
		}
	}
}
