// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/applytrack/internal/platform/database/schema"
	"github.com/taibuivan/applytrack/internal/platform/dberr"
	"github.com/taibuivan/applytrack/internal/platform/sec"
)

// dbPool is the subset of [pgxpool.Pool] the repository uses.
type dbPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] on the users.account table.
type PostgresAccountRepository struct {
	pool dbPool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool dbPool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create persists a new account row.

Description: Uniqueness is enforced by the LOWER(email) index, so two concurrent
creations for the same address resolve to one row and one ErrAccountExists.
*/
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.Account.Table, strings.Join(schema.Account.Columns(), ", "),
	)

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.Credential.Value(),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrAccountExists
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

// FindByEmail retrieves an account by case-insensitive email.
func (repository *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE LOWER(%s) = $1`,
		strings.Join(schema.Account.Columns(), ", "),
		schema.Account.Table, schema.Account.Email,
	)

	var (
		account  Account
		password string
	)
	err := repository.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&password,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	account.Credential = sec.ClassifyCredential(password)
	return &account, nil
}

// Exists reports whether an account with the given email is present.
func (repository *PostgresAccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE LOWER(%s) = $1)`,
		schema.Account.Table, schema.Account.Email,
	)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_account_repo_exists_failed: %w", err)
	}

	return exists, nil
}

// ReplaceLegacyCredential performs a compare-and-swap from plaintext to hash.
func (repository *PostgresAccountRepository) ReplaceLegacyCredential(ctx context.Context, email, legacyPlaintext, hash string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2
		WHERE LOWER(%s) = $3 AND %s = $4`,
		schema.Account.Table,
		schema.Account.Password, schema.Account.UpdatedAt,
		schema.Account.Email, schema.Account.Password,
	)

	tag, err := repository.pool.Exec(ctx, query, hash, time.Now(), email, legacyPlaintext)
	if err != nil {
		return false, fmt.Errorf("postgres_account_repo_replace_credential_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListEmails returns every account email in alphabetical order.
func (repository *PostgresAccountRepository) ListEmails(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		schema.Account.Email, schema.Account.Table, schema.Account.Email,
	)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_list_emails_failed: %w", err)
	}

	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_list_emails_scan_failed: %w", err)
	}

	return emails, nil
}
