package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/repository"
	"github.com/oiloilo44/lupin/testing/suite"
)

func TestSessionRepository(t *testing.T) {
	t.Run("An issued token resolves to its binding", func(t *testing.T) {
		// Given: a repository with a 30m retention window
		ctx, st := suite.New(t)
		sessions := repository.NewSessionRepository(st.Storage, 30*time.Minute)

		// When: a token is issued for seat 2 of a room
		token, err := sessions.Issue(ctx, "abc12345", 2)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// Then: it resolves back to the same binding
		binding, err := sessions.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "abc12345", binding.RoomID)
		assert.Equal(t, 2, binding.PlayerNumber)
	})

	t.Run("Tokens are unique per issue", func(t *testing.T) {
		ctx, st := suite.New(t)
		sessions := repository.NewSessionRepository(st.Storage, 30*time.Minute)

		first, err := sessions.Issue(ctx, "abc12345", 1)
		require.NoError(t, err)
		second, err := sessions.Issue(ctx, "abc12345", 2)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("An unknown token does not resolve", func(t *testing.T) {
		ctx, st := suite.New(t)
		sessions := repository.NewSessionRepository(st.Storage, 30*time.Minute)

		_, err := sessions.Resolve(ctx, "no-such-token")

		require.ErrorIs(t, err, apperror.ErrInvalidSession)
	})

	t.Run("A revoked token does not resolve", func(t *testing.T) {
		// Given: an issued token
		ctx, st := suite.New(t)
		sessions := repository.NewSessionRepository(st.Storage, 30*time.Minute)
		token, err := sessions.Issue(ctx, "abc12345", 1)
		require.NoError(t, err)

		// When: it is revoked
		require.NoError(t, sessions.Revoke(ctx, token))

		// Then: it no longer resolves
		_, err = sessions.Resolve(ctx, token)
		require.ErrorIs(t, err, apperror.ErrInvalidSession)
	})

	t.Run("Revoking an unknown token is not an error", func(t *testing.T) {
		ctx, st := suite.New(t)
		sessions := repository.NewSessionRepository(st.Storage, 30*time.Minute)

		require.NoError(t, sessions.Revoke(ctx, "no-such-token"))
	})

	t.Run("A token past the retention window does not resolve", func(t *testing.T) {
		// Given: a token with a one minute retention window
		ctx, st := suite.New(t)
		sessions := repository.NewSessionRepository(st.Storage, time.Minute)
		token, err := sessions.Issue(ctx, "abc12345", 1)
		require.NoError(t, err)

		// When: more than a minute passes
		st.Redis.FastForward(2 * time.Minute)

		// Then: the token has expired
		_, err = sessions.Resolve(ctx, token)
		require.ErrorIs(t, err, apperror.ErrInvalidSession)
	})

	t.Run("Resolving refreshes the retention window", func(t *testing.T) {
		// Given: a token half way through its window
		ctx, st := suite.New(t)
		sessions := repository.NewSessionRepository(st.Storage, time.Minute)
		token, err := sessions.Issue(ctx, "abc12345", 1)
		require.NoError(t, err)
		st.Redis.FastForward(40 * time.Second)

		// When: the token is resolved, then the original window elapses
		_, err = sessions.Resolve(ctx, token)
		require.NoError(t, err)
		st.Redis.FastForward(40 * time.Second)

		// Then: the refreshed token still resolves
		binding, err := sessions.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "abc12345", binding.RoomID)
	})
}
