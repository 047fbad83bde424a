package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var errMalformedPHC = errors.New("hash: malformed argon2id string")

// argonParams is everything needed to re-derive a key. It round-trips
// through the PHC string format "$argon2id$v=19$m=..,t=..,p=..$salt$key".
type argonParams struct {
	memory  uint32 // KiB
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (p argonParams) String() string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads, enc.EncodeToString(p.salt), enc.EncodeToString(p.key))
}

func parseArgonParams(s string) (argonParams, error) {
	var p argonParams

	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, errMalformedPHC
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, errMalformedPHC
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, errMalformedPHC
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, errMalformedPHC
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return p, errMalformedPHC
	}

	return p, nil
}

// Argon2id implements Hash with argon2.IDKey.
type Argon2id struct {
	base   argonParams
	keyLen uint32
	pepper string
	// slots bounds concurrent derivations since each one allocates base.memory KiB.
	slots chan struct{}
}

// NewArgon2id returns an Argon2id hasher with 32 MiB, 3 passes and 2 lanes.
// maxConcurrent of 0 leaves derivations unbounded.
func NewArgon2id(pepper string, maxConcurrent int) *Argon2id {
	a := &Argon2id{
		base:   argonParams{memory: 32 * 1024, time: 3, threads: 2, salt: make([]byte, 16)},
		keyLen: 32,
		pepper: pepper,
	}
	if maxConcurrent > 0 {
		a.slots = make(chan struct{}, maxConcurrent)
	}
	return a
}

func (a *Argon2id) derive(plaintext string, p argonParams, keyLen uint32) []byte {
	if a.slots != nil {
		a.slots <- struct{}{}
		defer func() { <-a.slots }()
	}
	return argon2.IDKey([]byte(plaintext+a.pepper), p.salt, p.time, p.memory, p.threads, keyLen)
}

// Hash derives a key under a fresh random salt and returns the PHC string.
func (a *Argon2id) Hash(plaintext string) ([]byte, error) {
	p := a.base
	p.salt = make([]byte, len(a.base.salt))
	if _, err := rand.Read(p.salt); err != nil {
		return nil, fmt.Errorf("hash: read salt: %w", err)
	}

	p.key = a.derive(plaintext, p, a.keyLen)
	return []byte(p.String()), nil
}

// Verify re-derives with the parameters stored in hashed, so hashes made
// with older settings keep verifying.
func (a *Argon2id) Verify(hashed, plaintext string) bool {
	if plaintext == "" {
		return false
	}

	p, err := parseArgonParams(hashed)
	if err != nil {
		return false
	}

	got := a.derive(plaintext, p, uint32(len(p.key))) //nolint:gosec // key length comes from our own encoding
	return subtle.ConstantTimeCompare(p.key, got) == 1
}
