// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/taibuivan/applytrack/internal/platform/sec"
)

// memoryAccountRepository is an in-process AccountRepository keyed like the
// LOWER(email) unique index.
type memoryAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*Account

	findErr    error
	existsErr  error
	createErr  error
	replaceErr error
	listErr    error

	existsCalls  int
	replaceCalls int
}

func newMemoryAccountRepository() *memoryAccountRepository {
	return &memoryAccountRepository{accounts: make(map[string]*Account)}
}

// seed inserts a row with a raw stored password, bypassing hashing.
func (r *memoryAccountRepository) seed(email, storedPassword string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[strings.ToLower(email)] = &Account{
		ID:         "seed-" + email,
		Email:      email,
		Credential: sec.ClassifyCredential(storedPassword),
	}
}

func (r *memoryAccountRepository) stored(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[strings.ToLower(email)].Credential.Value()
}

func (r *memoryAccountRepository) delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, strings.ToLower(email))
}

func (r *memoryAccountRepository) Create(_ context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := strings.ToLower(account.Email)
	if _, ok := r.accounts[key]; ok {
		return ErrAccountExists
	}
	copied := *account
	r.accounts[key] = &copied
	return nil
}

func (r *memoryAccountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	account, ok := r.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *memoryAccountRepository) Exists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.existsCalls++
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.accounts[email]
	return ok, nil
}

func (r *memoryAccountRepository) ReplaceLegacyCredential(_ context.Context, email, legacyPlaintext, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	if r.replaceErr != nil {
		return false, r.replaceErr
	}
	account, ok := r.accounts[email]
	if !ok || account.Credential.Value() != legacyPlaintext {
		return false, nil
	}
	account.Credential = sec.ClassifyCredential(hash)
	return true, nil
}

func (r *memoryAccountRepository) ListEmails(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var emails []string
	for _, account := range r.accounts {
		emails = append(emails, account.Email)
	}
	sort.Strings(emails)
	return emails, nil
}
