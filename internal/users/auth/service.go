// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/applytrack/internal/platform/apperr"
	"github.com/taibuivan/applytrack/internal/platform/constants"
	"github.com/taibuivan/applytrack/internal/platform/ctxutil"
	"github.com/taibuivan/applytrack/internal/platform/sec"
	"github.com/taibuivan/applytrack/internal/platform/validate"
	"github.com/taibuivan/applytrack/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting session tokens.
type TokenIssuer interface {
	// Issue returns a signed, time-limited token whose subject is subjectEmail.
	Issue(subjectEmail string) (string, error)
}

// Service implements the account use cases: creation, authentication and listing.
//
// # Review Process
//
// Any change to hashing or the legacy-credential upgrade must keep the
// guarantees documented on [Service.Authenticate].
type Service struct {
	accountRepository AccountRepository
	tokenIssuer       TokenIssuer
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, tokenIssuer TokenIssuer) *Service {
	return &Service{
		accountRepository: accountRepo,
		tokenIssuer:       tokenIssuer,
	}
}

// CredentialsInput carries an email/password pair as submitted by the client.
type CredentialsInput struct {
	Email    string
	Password string
}

// normalize returns the normalized email, or a ValidationError when either field is empty.
func (input CredentialsInput) normalize() (string, error) {
	email := NormalizeEmail(input.Email)

	validator := validate.New(msgFieldsRequired).
		Required(FieldEmail, email).
		NotEmpty(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return "", err
	}

	return email, nil
}

// # Registration Flow

/*
CreateAccount validates, hashes, and persists a new account.

Description: The password is hashed with bcrypt before it is stored. No token
is issued; the client logs in separately.

Returns:
  - err: ValidationError, Conflict, or Internal
*/
func (service *Service) CreateAccount(ctx context.Context, input CredentialsInput) error {
	email, err := input.normalize()
	if err != nil {
		return err
	}

	if err := validate.New(msgPasswordTooLong).
		MaxBytes(FieldPassword, input.Password, constants.PasswordMaxBytes).
		Err(); err != nil {
		return err
	}

	credential, err := sec.NewHashedCredential(input.Password)
	if err != nil {
		return apperr.Internal(err).WithMessage(msgCreateFailed)
	}

	account := &Account{
		ID:         uuid.New(),
		Email:      email,
		Credential: credential,
	}

	if err := service.accountRepository.Create(ctx, account); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return apperr.Conflict(msgDuplicateEmail)
		}
		return apperr.Internal(err).WithMessage(msgCreateFailed)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_created", slog.String("account_id", account.ID))
	return nil
}

// # Authentication Flow

/*
Authenticate verifies credentials and issues a session token.

Description: Unknown emails and wrong passwords produce the same error. When
the stored credential is legacy plaintext and matches, it is replaced by its
bcrypt hash before the token is returned; a failed upgrade is logged and does
not fail the login.

Returns:
  - string: Signed session token
  - err: ValidationError, InvalidCredentials, or Internal
*/
func (service *Service) Authenticate(ctx context.Context, input CredentialsInput) (string, error) {
	email, err := input.normalize()
	if err != nil {
		return "", err
	}

	account, err := service.accountRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", apperr.InvalidCredentials()
		}
		return "", apperr.Internal(err).WithMessage(msgLoginFailed)
	}

	match := sec.VerifyPassword(input.Password, account.Credential)
	if !match.Matched {
		return "", apperr.InvalidCredentials()
	}

	if match.NeedsRehash() {
		service.upgradeLegacyCredential(ctx, email, account, input.Password)
	}

	token, err := service.tokenIssuer.Issue(email)
	if err != nil {
		return "", apperr.Internal(err).WithMessage(msgLoginFailed)
	}

	return token, nil
}

// upgradeLegacyCredential replaces a matched plaintext credential with its hash.
// Failures are logged only: the caller has already authenticated. Passwords
// longer than bcrypt accepts stay plaintext and are reported on every login.
func (service *Service) upgradeLegacyCredential(ctx context.Context, email string, account *Account, password string) {
	logger := ctxutil.GetLogger(ctx).With(slog.String("account_id", account.ID))

	if len(password) > constants.PasswordMaxBytes {
		logger.WarnContext(ctx, "legacy_credential_not_rehashable",
			slog.Int("password_bytes", len(password)),
			slog.Int("max_bytes", constants.PasswordMaxBytes),
		)
		return
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		logger.WarnContext(ctx, "legacy_credential_rehash_failed", slog.Any("error", err))
		return
	}

	replaced, err := service.accountRepository.ReplaceLegacyCredential(ctx, email, account.Credential.Value(), hash)
	if err != nil {
		logger.WarnContext(ctx, "legacy_credential_rehash_failed", slog.Any("error", err))
		return
	}

	if replaced {
		logger.InfoContext(ctx, "legacy_credential_upgraded")
	}
}

// # Directory

// ListEmails returns the email of every account.
func (service *Service) ListEmails(ctx context.Context) ([]string, error) {
	emails, err := service.accountRepository.ListEmails(ctx)
	if err != nil {
		return nil, apperr.Internal(err).WithMessage(msgListFailed)
	}
	if emails == nil {
		emails = []string{}
	}
	return emails, nil
}
