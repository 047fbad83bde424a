// Package hash provides helpers for hashing and verifying account credentials.
//
// Store only the hash, then verify user input by comparing the plaintext
// against the stored hash. Bcrypt and Argon2id implementations live behind the
// Hash interface; NewFromDriver picks one by name.
package hash
