// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # Account Data Access

// AccountRepository defines the data access contract for the credential store.
//
// Every email argument is expected to be normalized with [NormalizeEmail].
type AccountRepository interface {

	/*
		Create persists a new account.

		Returns:
		  - error: ErrAccountExists on a case-insensitive email collision, or storage failures
	*/
	Create(ctx context.Context, account *Account) error

	/*
		FindByEmail returns the account whose lowercased email equals email.

		Returns:
		  - *Account: Hydrated entity with its classified credential
		  - error: ErrAccountNotFound or storage failures
	*/
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Exists reports whether an account with the given email is present.
	Exists(ctx context.Context, email string) (bool, error)

	/*
		ReplaceLegacyCredential swaps a plaintext credential for its hash.

		The update only applies while the row still holds legacyPlaintext, so a
		concurrent upgrade or an already hashed row is left untouched.

		Returns:
		  - bool: true if this call replaced the credential
		  - error: Storage failures
	*/
	ReplaceLegacyCredential(ctx context.Context, email, legacyPlaintext, hash string) (bool, error)

	// ListEmails returns the email of every account.
	ListEmails(ctx context.Context) ([]string, error)
}

// # Volatile Data Access

// PresenceCache remembers, for a short time, that an account exists.
//
// Only positive lookups are cached. A hit skips the store, so an account
// deleted outside the API keeps passing the guard until its entry expires.
type PresenceCache interface {
	Seen(ctx context.Context, email string) (bool, error)
	Remember(ctx context.Context, email string) error
}
