package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Operator passwords are stored as Argon2id PHC strings, e.g.
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<key>. Cost parameters follow
// the OWASP 2025 baseline for interactive logins.
const (
	hashIterations  = 3
	hashMemoryKiB   = 64 * 1024
	hashParallelism = 1
	hashKeyLength   = 32
	hashSaltLength  = 16
)

// phcFieldCount is the number of $-separated fields in a full PHC string.
const phcFieldCount = 6

// ErrMalformedHash reports a stored hash that is not a valid Argon2id
// PHC string. Distinct from a wrong password: it means the users table
// holds something we never wrote.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives an Argon2id key from a plaintext password with a
// fresh random salt and returns it in PHC string format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("reading salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt,
		hashIterations, hashMemoryKiB, hashParallelism, hashKeyLength)

	return encodePHC(salt, key), nil
}

// VerifyPassword re-derives the key for password using the salt and cost
// parameters embedded in encoded, comparing in constant time. A false
// result with a nil error means the password is simply wrong.
func VerifyPassword(password, encoded string) (bool, error) {
	salt, key, costs, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt,
		costs.iterations, costs.memoryKiB, costs.parallelism,
		uint32(len(key))) //nolint:gosec // G115: key length always fits uint32

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// Authenticate resolves a username/password pair to a user account.
//
// Unknown usernames and wrong passwords are both reported as
// ErrInvalidCredentials so callers cannot reveal which one failed.
func Authenticate(ctx context.Context, repo UserRepository, username, password string) (*User, error) {
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// hashCosts carries the cost parameters parsed out of a PHC string, so
// verification keeps working after the package defaults change.
type hashCosts struct {
	iterations  uint32
	memoryKiB   uint32
	parallelism uint8
}

// encodePHC renders a salt and derived key as an Argon2id PHC string
// using the package cost parameters.
func encodePHC(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashMemoryKiB, hashIterations, hashParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// parsePHC splits an Argon2id PHC string into salt, key, and cost
// parameters. Hashes produced by any other algorithm are rejected.
func parsePHC(encoded string) (salt, key []byte, costs hashCosts, err error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != phcFieldCount {
		return nil, nil, costs, fmt.Errorf("%w: expected %d fields, got %d",
			ErrMalformedHash, phcFieldCount, len(fields))
	}

	if fields[1] != "argon2id" {
		return nil, nil, costs, fmt.Errorf("%w: algorithm %q", ErrMalformedHash, fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return nil, nil, costs, fmt.Errorf("%w: version field %q", ErrMalformedHash, fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d",
		&costs.memoryKiB, &costs.iterations, &costs.parallelism); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return nil, nil, costs, fmt.Errorf("%w: cost field %q", ErrMalformedHash, fields[3])
	}

	salt, err = base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return nil, nil, costs, fmt.Errorf("%w: salt is not base64", ErrMalformedHash)
	}

	key, err = base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return nil, nil, costs, fmt.Errorf("%w: key is not base64", ErrMalformedHash)
	}

	return salt, key, costs, nil
}
