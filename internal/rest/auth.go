package rest

import (
	"banditLab/pkg/logger"
	"banditLab/pkg/utils"
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	redisRepo "banditLab/internal/repository/redis"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	AuthHandler struct {
		validate *validator.Validate
		tokens   TokenStore
		apiKey   string
		tokenTTL time.Duration
	}

	TokenStore interface {
		StoreToken(ctx context.Context, clientID, token string, data redisRepo.TokenData, ttl time.Duration) error
		RevokeToken(ctx context.Context, clientID string) error
	}

	TokenRequest struct {
		ClientID string `json:"client_id" validate:"required"`
		APIKey   string `json:"api_key" validate:"required"`
	}

	TokenResponse struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
)

func NewAuthHandler(tokens TokenStore, apiKey string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		validate: validator.New(),
		tokens:   tokens,
		apiKey:   apiKey,
		tokenTTL: tokenTTL,
	}
}

// Token exchanges the shared API key for a short-lived JWT.
func (h *AuthHandler) Token(c echo.Context) error {
	var req TokenRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid api key"})
	}

	token, err := utils.GenerateJWT(req.ClientID, "harness", h.tokenTTL)
	if err != nil {
		logger.Error("Failed to generate token", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to generate token"})
	}

	now := time.Now()
	expiresAt := now.Add(h.tokenTTL)

	err = h.tokens.StoreToken(c.Request().Context(), req.ClientID, token, redisRepo.TokenData{
		ClientID:  req.ClientID,
		Role:      "harness",
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, h.tokenTTL)
	if err != nil {
		logger.Error("Failed to store token", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to store token"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}))
}

// Revoke drops the caller's stored token, so it stops validating before
// its JWT expiry.
func (h *AuthHandler) Revoke(c echo.Context) error {
	clientID, ok := c.Get("client_id").(string)
	if !ok || clientID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.tokens.RevokeToken(c.Request().Context(), clientID); err != nil {
		if errors.Is(err, redisRepo.ErrTokenNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "no token issued for client"})
		}
		logger.Error("Failed to revoke token", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to revoke token"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("token revoked"))
}
