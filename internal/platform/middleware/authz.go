// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/applytrack/internal/platform/constants"
	"github.com/taibuivan/applytrack/internal/platform/ctxutil"
	"github.com/taibuivan/applytrack/internal/platform/respond"
	"github.com/taibuivan/applytrack/internal/platform/sec"
)

// SessionAuthorizer turns a raw Authorization header into verified claims.
//
// Defined here so the middleware does not depend on the auth service package.
type SessionAuthorizer interface {
	Authorize(ctx context.Context, authorizationHeader string) (*sec.AuthClaims, error)
}

// RequireSession blocks requests that do not carry a valid session for an existing account.
//
// # Flow
//  1. Pass the Authorization header to the [SessionAuthorizer].
//  2. On failure, write the typed error (401 missing, 403 invalid/unknown, 500 storage).
//  3. On success, inject [*sec.AuthClaims] into the request context.
func RequireSession(authorizer SessionAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := authorizer.Authorize(request.Context(), request.Header.Get(constants.HeaderAuthorization))
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
