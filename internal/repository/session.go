package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oiloilo44/lupin/internal/apperror"
)

// SessionBinding - what a bearer token resolves to. The token itself is
// the only credential; nickname is never part of identity.
type SessionBinding struct {
	RoomID       string `json:"room_id"`
	PlayerNumber int    `json:"player_number"`
}

type SessionRepository interface {
	Issue(ctx context.Context, roomID string, playerNumber int) (string, error)
	Resolve(ctx context.Context, token string) (*SessionBinding, error)
	Revoke(ctx context.Context, token string) error
}

type dbSession struct {
	client    *redis.Client
	retention time.Duration
}

func NewSessionRepository(client *redis.Client, retention time.Duration) SessionRepository {
	return &dbSession{
		client:    client,
		retention: retention,
	}
}

// Issue - mints an unguessable token bound to (roomID, playerNumber).
// The retention window is stored as the key's TTL, so expiry is enforced
// by Redis itself.
func (that *dbSession) Issue(ctx context.Context, roomID string, playerNumber int) (string, error) {
	binding := SessionBinding{
		RoomID:       roomID,
		PlayerNumber: playerNumber,
	}

	bindingJSON, err := json.Marshal(binding)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session binding: %w", err)
	}

	token := uuid.NewString()

	sessionKey := "session:" + token
	if err = that.client.Set(ctx, sessionKey, bindingJSON, that.retention).Err(); err != nil {
		return "", fmt.Errorf("failed to set session: %w", err)
	}

	return token, nil
}

// Resolve - looks a token up and refreshes its retention window.
func (that *dbSession) Resolve(ctx context.Context, token string) (*SessionBinding, error) {
	sessionKey := "session:" + token

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrInvalidSession
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	var binding SessionBinding
	if err = json.Unmarshal([]byte(response), &binding); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session binding: %w", err)
	}

	if err = that.client.Expire(ctx, sessionKey, that.retention).Err(); err != nil {
		return nil, fmt.Errorf("failed to refresh session ttl: %w", err)
	}

	return &binding, nil
}

func (that *dbSession) Revoke(ctx context.Context, token string) error {
	sessionKey := "session:" + token

	if err := that.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}
