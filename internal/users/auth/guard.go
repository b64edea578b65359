// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/applytrack/internal/platform/apperr"
	"github.com/taibuivan/applytrack/internal/platform/ctxutil"
	"github.com/taibuivan/applytrack/internal/platform/sec"
)

// TokenVerifier defines the contract for checking session token signature and expiry.
type TokenVerifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

// Guard authorizes requests carrying a session token.
//
// Each call runs the whole chain: extract the token, verify it, then confirm
// the subject account still exists. Nothing is kept between requests except
// the optional presence cache.
type Guard struct {
	tokenVerifier     TokenVerifier
	accountRepository AccountRepository
	presenceCache     PresenceCache
}

// NewGuard constructs a [Guard]. presenceCache may be nil to always hit the store.
func NewGuard(tokenVerifier TokenVerifier, accountRepo AccountRepository, presenceCache PresenceCache) *Guard {
	return &Guard{
		tokenVerifier:     tokenVerifier,
		accountRepository: accountRepo,
		presenceCache:     presenceCache,
	}
}

/*
Authorize turns an Authorization header value into verified claims.

Returns:
  - *sec.AuthClaims: Claims whose Subject is the normalized account email
  - error: MissingToken (401), InvalidToken (403), AccountNotFound (403), or Internal (500)
*/
func (guard *Guard) Authorize(ctx context.Context, authorizationHeader string) (*sec.AuthClaims, error) {
	token := sec.ExtractBearerToken(authorizationHeader)
	if token == "" {
		return nil, apperr.MissingToken()
	}

	claims, err := guard.tokenVerifier.Verify(token)
	if err != nil {
		return nil, apperr.InvalidToken()
	}

	email := NormalizeEmail(claims.Subject)
	if email == "" {
		return nil, apperr.InvalidToken()
	}

	exists, err := guard.accountExists(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err).WithMessage(msgAuthStorageFailed)
	}
	if !exists {
		return nil, apperr.AccountNotFound()
	}

	verified := *claims
	verified.Subject = email
	verified.Email = email
	return &verified, nil
}

// accountExists consults the presence cache before the store. Cache failures
// are logged and fall through to the store; only positive answers are cached.
func (guard *Guard) accountExists(ctx context.Context, email string) (bool, error) {
	logger := ctxutil.GetLogger(ctx)

	if guard.presenceCache != nil {
		seen, err := guard.presenceCache.Seen(ctx, email)
		if err != nil {
			logger.WarnContext(ctx, "presence_cache_read_failed", slog.Any("error", err))
		} else if seen {
			return true, nil
		}
	}

	exists, err := guard.accountRepository.Exists(ctx, email)
	if err != nil {
		return false, err
	}

	if exists && guard.presenceCache != nil {
		if err := guard.presenceCache.Remember(ctx, email); err != nil {
			logger.WarnContext(ctx, "presence_cache_write_failed", slog.Any("error", err))
		}
	}

	return exists, nil
}
