// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account creation, credential verification and session
authorization for the Applytrack API.

# Architecture

  - Service: creates accounts and authenticates them, issuing session tokens.
  - Guard: re-validates a bearer token against the credential store on every
    protected request.
  - Repository: the Postgres credential store and the optional Redis presence cache.
*/
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/taibuivan/applytrack/internal/platform/sec"
)

// # Domain Entities

// Account is a registered user of the tracker.
type Account struct {
	ID         string
	Email      string
	Credential sec.Credential
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeEmail trims and lowercases an address. All lookups and uniqueness
// checks use the normalized form.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// # Storage Errors

var (
	// ErrAccountNotFound is returned by the store when no account matches.
	ErrAccountNotFound = errors.New("auth: account not found")

	// ErrAccountExists is returned by the store on a normalized email collision.
	ErrAccountExists = errors.New("auth: account already exists")
)

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// # Client Messages

const (
	msgAccountCreated    = "Account created successfully!"
	msgFieldsRequired    = "Email and password are required."
	msgPasswordTooLong   = "Password must be at most 72 bytes."
	msgDuplicateEmail    = "An account with this email already exists."
	msgCreateFailed      = "Error creating account."
	msgLoginFailed       = "Error logging in."
	msgListFailed        = "Error retrieving email addresses."
	msgAuthStorageFailed = "Database error during authentication."
)
