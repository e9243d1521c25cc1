package middleware

import (
	"banditLab/pkg/logger"
	"banditLab/pkg/utils"
	"context"
	"net/http"
	"strings"
	"time"

	jsonres "banditLab/pkg/response"

	"github.com/labstack/echo/v4"
)

// TokenValidator checks issued tokens against the Redis-backed token store.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// AuthMiddleware validates the bearer JWT without consulting Redis.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, tokenString, ok := bearerClaims(c)
			if !ok {
				return nil
			}

			c.Set("client_id", claims.ClientID)
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// AuthMiddlewareWithRedis validates the bearer JWT and requires the token
// to still be present in the token store, so revoked tokens stop working
// before their JWT expiry.
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, tokenString, ok := bearerClaims(c)
			if !ok {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			clientID, err := tokenValidator.ValidateToken(ctx, tokenString)
			if err != nil {
				logger.Error("Token not found in Redis", "error", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Token expired or invalid", nil,
				))
			}

			if clientID != claims.ClientID {
				logger.Error("Client ID mismatch between JWT and Redis")
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			c.Set("client_id", claims.ClientID)
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// bearerClaims extracts and verifies the bearer token. On failure it writes
// the rejection response itself and returns ok=false.
func bearerClaims(c echo.Context) (*utils.Claims, string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		_ = c.JSON(http.StatusUnauthorized, jsonres.Error(
			"UNAUTHORIZED", "Missing authorization header", nil,
		))
		return nil, "", false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		_ = c.JSON(http.StatusUnauthorized, jsonres.Error(
			"UNAUTHORIZED", "Invalid authorization format", nil,
		))
		return nil, "", false
	}

	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, jsonres.Error(
			"UNAUTHORIZED", "Invalid token", nil,
		))
		return nil, "", false
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil {
		_ = c.JSON(http.StatusForbidden, jsonres.Error(
			"FORBIDDEN", "Status Forbidden", nil,
		))
		return nil, "", false
	}

	if time.Now().After(expAt.Time) {
		_ = c.JSON(http.StatusForbidden, jsonres.Error(
			"FORBIDDEN", "Token expired", nil,
		))
		return nil, "", false
	}

	return claims, tokenString, true
}
