// Package otp provides the time-based one-time password (TOTP) primitive used
// for second-factor enrollment: secret generation, provisioning URIs,
// QR rendering and code validation.
//
// Secrets are rendered as unpadded RFC 4648 base32. Validation never panics on
// malformed input; a bad secret or code simply does not validate.
package otp
