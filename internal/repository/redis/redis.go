package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when no token is stored for the lookup key,
// which also covers tokens that expired out of Redis.
var ErrTokenNotFound = errors.New("token not found")

type TokenData struct {
	ClientID  string    `json:"client_id"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenRepository keeps issued harness tokens in Redis so they can be
// revoked server-side before their JWT expiry.
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func (r *TokenRepository) StoreToken(ctx context.Context, clientID, token string, data TokenData, ttl time.Duration) error {
	key := fmt.Sprintf("token:client:%s", clientID)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	if err := r.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	// reverse lookup token -> client_id for validation on request paths
	tokenKey := fmt.Sprintf("token:lookup:%s", token)
	if err := r.client.Set(ctx, tokenKey, clientID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token lookup: %w", err)
	}

	return nil
}

// GetTokenData retrieves token data by client ID.
func (r *TokenRepository) GetTokenData(ctx context.Context, clientID string) (*TokenData, error) {
	key := fmt.Sprintf("token:client:%s", clientID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var tokenData TokenData
	if err := json.Unmarshal([]byte(val), &tokenData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &tokenData, nil
}

// ValidateToken checks that a token is still issued and returns its client ID.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	tokenKey := fmt.Sprintf("token:lookup:%s", token)

	clientID, err := r.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return clientID, nil
}

// RevokeToken drops both directions of a stored token.
func (r *TokenRepository) RevokeToken(ctx context.Context, clientID string) error {
	data, err := r.GetTokenData(ctx, clientID)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("token:client:%s", clientID)
	tokenKey := fmt.Sprintf("token:lookup:%s", data.Token)

	if err := r.client.Del(ctx, key, tokenKey).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}
