// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/applytrack/internal/platform/apperr"
	"github.com/taibuivan/applytrack/internal/platform/respond"
	"github.com/taibuivan/applytrack/internal/platform/sec"
)

type apiFixture struct {
	router http.Handler
	repo   *memoryAccountRepository
	tokens *sec.TokenService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	repo := newMemoryAccountRepository()
	tokens := newTestTokens(t)

	handler := NewHandler(NewService(repo, tokens), NewGuard(tokens, repo, nil))
	router := chi.NewRouter()
	router.Mount("/api", handler.Routes())

	return &apiFixture{router: router, repo: repo, tokens: tokens}
}

func (f *apiFixture) do(t *testing.T, method, path, body, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	var request *http.Request
	if body != "" {
		request = httptest.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	} else {
		request = httptest.NewRequest(method, path, nil)
	}
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

/*
TestAPI_AccountLifecycle walks through signup, login, and the protected endpoints.
*/
func TestAPI_AccountLifecycle(t *testing.T) {
	api := newAPIFixture(t)

	created := api.do(t, http.MethodPost, "/api/create-account", `{"email":"bob@example.com","password":"pw123"}`, "")
	assert.Equal(t, http.StatusCreated, created.Code)
	assert.JSONEq(t, `{"message":"Account created successfully!"}`, created.Body.String())

	wrong := api.do(t, http.MethodPost, "/api/login", `{"email":"bob@example.com","password":"wrongpw"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, "Invalid email or password.", decodeError(t, wrong).Message)

	login := api.do(t, http.MethodPost, "/api/login", `{"email":"BOB@Example.com","password":"pw123"}`, "")
	require.Equal(t, http.StatusOK, login.Code)

	var loginBody loginResponse
	require.NoError(t, json.NewDecoder(login.Body).Decode(&loginBody))
	require.NotEmpty(t, loginBody.Token)

	me := api.do(t, http.MethodGet, "/api/auth/me", "", "Bearer "+loginBody.Token)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.JSONEq(t, `{"email":"bob@example.com"}`, me.Body.String())

	bare := api.do(t, http.MethodGet, "/api/auth/me", "", loginBody.Token)
	assert.Equal(t, http.StatusOK, bare.Code)

	users := api.do(t, http.MethodGet, "/api/users", "", "Bearer "+loginBody.Token)
	assert.Equal(t, http.StatusOK, users.Code)
	assert.JSONEq(t, `{"emails":["bob@example.com"]}`, users.Body.String())

	missing := api.do(t, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, "Access denied. No token provided.", decodeError(t, missing).Message)

	foreign, err := sec.NewTokenService("someone-else", "applytrack")
	require.NoError(t, err)
	forged, err := foreign.Issue("bob@example.com")
	require.NoError(t, err)

	invalid := api.do(t, http.MethodGet, "/api/auth/me", "", "Bearer "+forged)
	assert.Equal(t, http.StatusForbidden, invalid.Code)
	assert.Equal(t, "Invalid token.", decodeError(t, invalid).Message)
}

/*
TestAPI_CreateAccount_Errors covers the client error statuses of signup.
*/
func TestAPI_CreateAccount_Errors(t *testing.T) {
	api := newAPIFixture(t)
	require.Equal(t, http.StatusCreated,
		api.do(t, http.MethodPost, "/api/create-account", `{"email":"a@x.com","password":"pw"}`, "").Code)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"duplicate_other_case", `{"email":"A@X.com","password":"other"}`, http.StatusConflict, "An account with this email already exists."},
		{"missing_password", `{"email":"new@x.com"}`, http.StatusBadRequest, "Email and password are required."},
		{"missing_email", `{"password":"pw"}`, http.StatusBadRequest, "Email and password are required."},
		{"malformed_json", `{"email":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := api.do(t, http.MethodPost, "/api/create-account", tt.body, "")
			assert.Equal(t, tt.status, recorder.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, recorder).Message)
			}
		})
	}
}

/*
TestAPI_Login_LegacyAccount logs in a plaintext row and confirms it was upgraded.
*/
func TestAPI_Login_LegacyAccount(t *testing.T) {
	api := newAPIFixture(t)
	api.repo.seed("old@example.com", "hunter2")

	recorder := api.do(t, http.MethodPost, "/api/login", `{"email":"old@example.com","password":"hunter2"}`, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, sec.CheckPasswordHash("hunter2", api.repo.stored("old@example.com")))
}

/*
TestAPI_DeletedAccountLosesAccess rejects a still-valid token once its account is gone.
*/
func TestAPI_DeletedAccountLosesAccess(t *testing.T) {
	api := newAPIFixture(t)
	api.repo.seed("bob@example.com", "pw")

	token, err := api.tokens.Issue("bob@example.com")
	require.NoError(t, err)
	api.repo.delete("bob@example.com")

	recorder := api.do(t, http.MethodGet, "/api/users", "", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, apperr.CodeAccountNotFound, decodeError(t, recorder).Code)
}

/*
TestAPI_UnknownEndpoint returns the JSON not-found envelope.
*/
func TestAPI_UnknownEndpoint(t *testing.T) {
	api := newAPIFixture(t)

	recorder := api.do(t, http.MethodGet, "/api/does-not-exist", "", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, apperr.CodeNotFound, decodeError(t, recorder).Code)
}
