// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/applytrack/internal/platform/apperr"
	"github.com/taibuivan/applytrack/internal/platform/sec"
)

func newGuardFixture(t *testing.T) (*Guard, *memoryAccountRepository, *sec.TokenService) {
	t.Helper()
	repo := newMemoryAccountRepository()
	repo.seed("bob@example.com", "pw123")
	tokens := newTestTokens(t)
	return NewGuard(tokens, repo, nil), repo, tokens
}

/*
TestGuard_Authorize_HeaderForms accepts both the Bearer scheme and a bare token.
*/
func TestGuard_Authorize_HeaderForms(t *testing.T) {
	guard, _, tokens := newGuardFixture(t)
	token, err := tokens.Issue("bob@example.com")
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, "bearer " + token, token, "  Bearer " + token + "  "} {
		claims, err := guard.Authorize(context.Background(), header)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", claims.Subject)
		assert.Equal(t, "bob@example.com", claims.Email)
	}
}

/*
TestGuard_Authorize_Failures maps each failure to its typed error.
*/
func TestGuard_Authorize_Failures(t *testing.T) {
	guard, repo, tokens := newGuardFixture(t)

	foreign, err := sec.NewTokenService("another-secret", "applytrack")
	require.NoError(t, err)
	foreignToken, err := foreign.Issue("bob@example.com")
	require.NoError(t, err)

	expiring, err := sec.NewTokenService("test-secret", "applytrack",
		sec.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	require.NoError(t, err)
	expiredToken, err := expiring.Issue("bob@example.com")
	require.NoError(t, err)

	ghostToken, err := tokens.Issue("ghost@example.com")
	require.NoError(t, err)

	repo.seed("gone@example.com", "pw")
	goneToken, err := tokens.Issue("gone@example.com")
	require.NoError(t, err)
	repo.delete("gone@example.com")

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"no_header", "", apperr.CodeMissingToken},
		{"bearer_without_token", "Bearer", apperr.CodeMissingToken},
		{"garbage", "Bearer not-a-jwt", apperr.CodeInvalidToken},
		{"foreign_secret", "Bearer " + foreignToken, apperr.CodeInvalidToken},
		{"expired", "Bearer " + expiredToken, apperr.CodeInvalidToken},
		{"never_existed", "Bearer " + ghostToken, apperr.CodeAccountNotFound},
		{"deleted_after_issue", "Bearer " + goneToken, apperr.CodeAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := guard.Authorize(context.Background(), tt.header)
			assert.Nil(t, claims)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

/*
TestGuard_Authorize_StorageFailure reports a store outage as Internal, not as a missing account.
*/
func TestGuard_Authorize_StorageFailure(t *testing.T) {
	guard, repo, tokens := newGuardFixture(t)
	token, err := tokens.Issue("bob@example.com")
	require.NoError(t, err)

	repo.existsErr = errors.New("connection reset")

	_, err = guard.Authorize(context.Background(), "Bearer "+token)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeInternal, ae.Code)
	assert.Equal(t, "Database error during authentication.", ae.Message)
}

/*
TestGuard_Authorize_PresenceCache skips the store while a positive entry is live.
*/
func TestGuard_Authorize_PresenceCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryAccountRepository()
	repo.seed("bob@example.com", "pw123")
	tokens := newTestTokens(t)
	guard := NewGuard(tokens, repo, NewPresenceCache(client, 30*time.Second))

	token, err := tokens.Issue("bob@example.com")
	require.NoError(t, err)
	ghost, err := tokens.Issue("ghost@example.com")
	require.NoError(t, err)

	_, err = guard.Authorize(context.Background(), token)
	require.NoError(t, err)
	_, err = guard.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.existsCalls)

	// Negative answers are never cached.
	for i := 0; i < 2; i++ {
		_, err = guard.Authorize(context.Background(), ghost)
		assert.True(t, apperr.HasCode(err, apperr.CodeAccountNotFound))
	}
	assert.Equal(t, 3, repo.existsCalls)
	assert.False(t, server.Exists(presenceKey("ghost@example.com")))

	server.FastForward(31 * time.Second)
	_, err = guard.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 4, repo.existsCalls)
}

/*
TestGuard_Authorize_CacheOutageFallsThrough keeps authorizing from the store when Redis is down.
*/
func TestGuard_Authorize_CacheOutageFallsThrough(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	repo := newMemoryAccountRepository()
	repo.seed("bob@example.com", "pw123")
	tokens := newTestTokens(t)
	guard := NewGuard(tokens, repo, NewPresenceCache(client, time.Minute))

	token, err := tokens.Issue("bob@example.com")
	require.NoError(t, err)

	claims, err := guard.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", claims.Subject)
	assert.Equal(t, 1, repo.existsCalls)
}

/*
TestGuard_Authorize_DeletedAccountWithCache bounds how long a deleted account
keeps passing when the presence cache is on, and checks it is refused at once
when the cache is off.
*/
func TestGuard_Authorize_DeletedAccountWithCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryAccountRepository()
	repo.seed("bob@example.com", "pw123")
	tokens := newTestTokens(t)
	cached := NewGuard(tokens, repo, NewPresenceCache(client, 30*time.Second))
	uncached := NewGuard(tokens, repo, nil)

	token, err := tokens.Issue("bob@example.com")
	require.NoError(t, err)

	_, err = cached.Authorize(context.Background(), token)
	require.NoError(t, err)

	repo.delete("bob@example.com")

	_, err = uncached.Authorize(context.Background(), token)
	assert.True(t, apperr.HasCode(err, apperr.CodeAccountNotFound))

	// The live entry still vouches for the account until the TTL elapses.
	_, err = cached.Authorize(context.Background(), token)
	assert.NoError(t, err)

	server.FastForward(31 * time.Second)
	_, err = cached.Authorize(context.Background(), token)
	assert.True(t, apperr.HasCode(err, apperr.CodeAccountNotFound))
	assert.False(t, server.Exists(presenceKey("bob@example.com")))
}
