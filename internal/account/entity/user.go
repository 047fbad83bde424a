package entity

import "strings"

type User struct {
	ID         string
	Email      string // lower-cased
	Name       string
	Credential string // hashed, never leaves the service
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
