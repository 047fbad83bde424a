package otp

import (
	"bytes"
	"encoding/base32"
	"strings"
	"testing"
	"time"

	libotp "github.com/pquerna/otp"
)

// RFC 6238 appendix B seed "12345678901234567890".
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func newTestTOTP() *TOTP {
	return NewTOTP("migorithm", 0, 0, 0, libotp.DigitsSix)
}

func TestNewTOTPDefaults(t *testing.T) {
	o := NewTOTP("issuer", 0, 0, 0, libotp.Digits(7))

	if o.period != DefaultPeriod || o.skew != DefaultSkew || o.secretSize != DefaultSecretSize {
		t.Fatalf("unexpected defaults: period=%d skew=%d secretSize=%d", o.period, o.skew, o.secretSize)
	}
	if o.digits != libotp.DigitsSix {
		t.Fatalf("expected six digits fallback, got %d", o.digits)
	}
}

func TestGenerate(t *testing.T) {
	o := newTestTOTP()

	secret, uri, err := o.Generate("ann@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if strings.Contains(secret, "=") {
		t.Fatalf("secret must be unpadded, got %q", secret)
	}

	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	if err != nil {
		t.Fatalf("secret is not base32: %v", err)
	}
	if len(raw) != int(DefaultSecretSize) {
		t.Fatalf("secret carries %d bytes, want %d", len(raw), DefaultSecretSize)
	}

	want := "otpauth://totp/migorithm:ann@x.com?secret=" + secret + "&issuer=migorithm"
	if uri != want {
		t.Fatalf("uri = %q, want %q", uri, want)
	}
}

func TestGenerateFreshSecrets(t *testing.T) {
	o := newTestTOTP()

	s1, _, err := o.Generate("ann@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	s2, _, err := o.Generate("ann@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if s1 == s2 {
		t.Fatalf("expected two different secrets, got %q twice", s1)
	}
}

func TestGenerateCodeKnownAnswer(t *testing.T) {
	o := newTestTOTP()

	code, err := o.GenerateCode(rfcSecret, time.Unix(59, 0).UTC())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	if code != "287082" {
		t.Fatalf("code = %q, want 287082", code)
	}
}

func TestValidate(t *testing.T) {
	o := newTestTOTP()
	at := time.Unix(1_700_000_000, 0).UTC()

	code, err := o.GenerateCode(rfcSecret, at)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	tests := []struct {
		name   string
		code   string
		secret string
		at     time.Time
		want   bool
	}{
		{name: "same step", code: code, secret: rfcSecret, at: at, want: true},
		{name: "one step later", code: code, secret: rfcSecret, at: at.Add(30 * time.Second), want: true},
		{name: "one step earlier", code: code, secret: rfcSecret, at: at.Add(-30 * time.Second), want: true},
		{name: "unpadded lowercase secret", code: code, secret: strings.ToLower(rfcSecret), at: at, want: true},
		{name: "empty code", code: "", secret: rfcSecret, at: at, want: false},
		{name: "wrong length", code: "12345", secret: rfcSecret, at: at, want: false},
		{name: "not digits", code: "abcdef", secret: rfcSecret, at: at, want: false},
		{name: "malformed secret", code: code, secret: "!!not-base32!!", at: at, want: false},
		{name: "empty secret", code: code, secret: "", at: at, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := o.Validate(tt.code, tt.secret, tt.at); got != tt.want {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProvisioningURI(t *testing.T) {
	got := ProvisioningURI("migorithm", "ann@x.com", "ABC")
	want := "otpauth://totp/migorithm:ann@x.com?secret=ABC&issuer=migorithm"

	if got != want {
		t.Fatalf("ProvisioningURI() = %q, want %q", got, want)
	}
}

func TestQRCode(t *testing.T) {
	o := newTestTOTP()

	_, uri, err := o.Generate("ann@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	img, err := o.QRCode(uri, 200)
	if err != nil {
		t.Fatalf("qr code: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("expected png output")
	}

	if _, err := o.QRCode(uri, 0); err != ErrQRCodeSize {
		t.Fatalf("expected ErrQRCodeSize, got %v", err)
	}
}
