package otp

import (
	"bytes"
	"errors"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// DefaultPeriod is the TOTP time-step length in seconds.
	DefaultPeriod uint = 30
	// DefaultSkew is the number of time-steps tolerated on either side of now.
	DefaultSkew uint = 1
	// DefaultSecretSize is the number of random bytes behind each secret.
	DefaultSecretSize uint = 21
)

// ErrQRCodeSize is returned when a QR image is requested with a non-positive size.
var ErrQRCodeSize = errors.New("otp: qr code size must be positive")

// OTP defines the contract for TOTP operations.
type OTP interface {
	// Generate creates a secret and provisioning URI for an account name.
	Generate(accountName string) (secret string, uri string, err error)
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// QRCode renders a provisioning URI as a square PNG image.
	QRCode(uri string, size int) ([]byte, error)
}

// TOTP implements OTP using the Time-based One-Time Password algorithm
// with SHA-1 codes.
type TOTP struct {
	issuer     string
	period     uint
	skew       uint
	secretSize uint
	digits     otp.Digits
}

// NewTOTP constructs a TOTP instance with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. Zero period, skew or
// secretSize fall back to 30 seconds, one step and 21 bytes.
func NewTOTP(issuer string, period, skew, secretSize uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = DefaultPeriod
	}

	if skew == 0 {
		skew = DefaultSkew
	}

	if secretSize == 0 {
		secretSize = DefaultSecretSize
	}

	return &TOTP{
		issuer:     issuer,
		period:     period,
		skew:       skew,
		secretSize: secretSize,
		digits:     digits,
	}
}

// Issuer returns the issuer embedded in provisioning URIs.
func (o *TOTP) Issuer() string {
	return o.issuer
}

// Generate creates a fresh random secret and its provisioning URI.
//
// The URI has the exact shape
//
//	otpauth://totp/{issuer}:{account}?secret={secret}&issuer={issuer}
//
// which authenticator apps read with their SHA-1 / 6 digit / 30s defaults.
func (o *TOTP) Generate(accountName string) (secret string, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.period,
		SecretSize:  o.secretSize,
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), ProvisioningURI(o.issuer, accountName, key.Secret()), nil
}

// ProvisioningURI renders the otpauth URI for the given issuer, account and secret.
func ProvisioningURI(issuer, accountName, secret string) string {
	return "otpauth://totp/" + issuer + ":" + accountName + "?secret=" + secret + "&issuer=" + issuer
}

// Validate checks whether a code is valid at the given time, tolerating the
// configured number of time-steps on either side.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, o.opts())

	return rv && err == nil
}

// GenerateCode creates a TOTP code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts())
}

// QRCode renders uri as a size x size PNG.
func (o *TOTP) QRCode(uri string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrQRCodeSize
	}

	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return nil, err
	}

	img, err := key.Image(size, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
