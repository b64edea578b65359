// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/applytrack/internal/platform/apperr"
	"github.com/taibuivan/applytrack/internal/platform/middleware"
	requestutil "github.com/taibuivan/applytrack/internal/platform/request"
	"github.com/taibuivan/applytrack/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the account and session HTTP endpoints.
//
// This layer is strictly responsible for transport concerns (status codes, JSON).
type Handler struct {
	authService *Service
	authorizer  middleware.SessionAuthorizer
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, authorizer middleware.SessionAuthorizer) *Handler {
	return &Handler{authService: service, authorizer: authorizer}
}

// Routes returns a [chi.Router] with the API endpoints, meant to be mounted at /api.
//
// # Endpoints
//   - POST /create-account : Creates a new account.
//   - POST /login          : Authenticates and returns a session token.
//   - GET  /users          : Lists every account email (session required).
//   - GET  /auth/me        : Returns the caller's email (session required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/create-account", handler.createAccount)
	router.Post("/login", handler.login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(handler.authorizer))
		r.Get("/users", handler.listUsers)
		r.Get("/auth/me", handler.me)
	})

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Endpoint"))
	})

	return router
}

// # Request Payloads

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// # Response Payloads

type loginResponse struct {
	Token string `json:"token"`
}

type usersResponse struct {
	Emails []string `json:"emails"`
}

type meResponse struct {
	Email string `json:"email"`
}

/*
createAccount handles POST /api/create-account.

Response:
  - 201: {message}
  - 400: Missing email or password, or malformed JSON
  - 409: Email already registered (case-insensitive)
*/
func (handler *Handler) createAccount(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.authService.CreateAccount(request.Context(), CredentialsInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusCreated, msgAccountCreated)
}

/*
login handles POST /api/login.

Response:
  - 200: {token}
  - 400: Missing email or password
  - 401: Invalid email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Authenticate(request.Context(), CredentialsInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{Token: token})
}

// listUsers handles GET /api/users. Any authorized account may list all emails.
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	emails, err := handler.authService.ListEmails(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, usersResponse{Emails: emails})
}

// me handles GET /api/auth/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	email, err := requestutil.RequiredEmail(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, meResponse{Email: email})
}
