// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/applytrack/internal/platform/constants"
)

// # Credential Encoding

// CredentialEncoding tells how a stored password value is represented.
type CredentialEncoding int

const (
	// EncodingHashed is a bcrypt hash string.
	EncodingHashed CredentialEncoding = iota + 1

	// EncodingLegacy is a plaintext password left over from before hashing was introduced.
	EncodingLegacy
)

// String implements fmt.Stringer for log attributes.
func (e CredentialEncoding) String() string {
	switch e {
	case EncodingHashed:
		return "hashed"
	case EncodingLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// bcryptPrefixes are the version markers bcrypt implementations emit.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// Credential is a stored password value tagged with its encoding.
//
// Build it with [ClassifyCredential] (rows read from storage) or [NewHashedCredential].
type Credential struct {
	encoding CredentialEncoding
	value    string
}

// ClassifyCredential inspects a stored value and tags it as hashed or legacy plaintext.
func ClassifyCredential(stored string) Credential {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(stored, prefix) {
			return Credential{encoding: EncodingHashed, value: stored}
		}
	}
	return Credential{encoding: EncodingLegacy, value: stored}
}

// NewHashedCredential hashes a plaintext password into a hashed [Credential].
func NewHashedCredential(plainTextPassword string) (Credential, error) {
	hash, err := HashPassword(plainTextPassword)
	if err != nil {
		return Credential{}, err
	}
	return Credential{encoding: EncodingHashed, value: hash}, nil
}

// Encoding returns the credential's encoding.
func (c Credential) Encoding() CredentialEncoding { return c.encoding }

// IsLegacy reports whether the credential is stored as plaintext.
func (c Credential) IsLegacy() bool { return c.encoding == EncodingLegacy }

// Value returns the raw string as persisted.
func (c Credential) Value() string { return c.value }

// # Verification

// PasswordMatch is the outcome of [VerifyPassword].
type PasswordMatch struct {
	Matched  bool
	Encoding CredentialEncoding
}

// NeedsRehash reports whether a successful match used a legacy plaintext credential.
func (m PasswordMatch) NeedsRehash() bool {
	return m.Matched && m.Encoding == EncodingLegacy
}

// VerifyPassword checks a supplied password against a stored credential.
//
// Hashed credentials only go through bcrypt, so a caller who sends the hash string
// itself never matches. Legacy credentials are compared byte for byte and never
// passed to bcrypt.
func VerifyPassword(suppliedPassword string, stored Credential) PasswordMatch {
	switch stored.encoding {
	case EncodingHashed:
		return PasswordMatch{
			Matched:  CheckPasswordHash(suppliedPassword, stored.value),
			Encoding: EncodingHashed,
		}
	case EncodingLegacy:
		matched := subtle.ConstantTimeCompare([]byte(suppliedPassword), []byte(stored.value)) == 1
		return PasswordMatch{Matched: matched, Encoding: EncodingLegacy}
	default:
		return PasswordMatch{}
	}
}

// # Hashing

// HashPassword hashes a plain-text password using bcrypt at [constants.PasswordHashCost].
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), constants.PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its bcrypt hash in constant time.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
