package hash

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverBcrypt selects the bcrypt hasher.
	DriverBcrypt = "bcrypt"
	// DriverArgon2id selects the Argon2id hasher.
	DriverArgon2id = "argon2id"
)

// ErrUnknownDriver indicates an unsupported hash driver.
var ErrUnknownDriver = errors.New("hash: unknown driver")

// Hash hashes plaintext secrets and verifies plaintext against a stored hash.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// Options groups the settings of every supported driver.
type Options struct {
	// Pepper is appended to plaintext before hashing; keep it out of storage.
	Pepper string
	// BcryptCost is the bcrypt work factor.
	BcryptCost int
	// Argon2MaxConcurrent bounds concurrent Argon2id computations; 0 disables the limit.
	Argon2MaxConcurrent int
}

// NewFromDriver constructs a Hash implementation by driver name.
func NewFromDriver(driver string, opts Options) (Hash, error) {
	switch strings.TrimSpace(driver) {
	case DriverBcrypt, "":
		return NewBcrypt(opts.BcryptCost, opts.Pepper), nil
	case DriverArgon2id:
		return NewArgon2id(opts.Pepper, opts.Argon2MaxConcurrent), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
