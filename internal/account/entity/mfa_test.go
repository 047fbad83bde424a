package entity

import (
	"errors"
	"testing"
)

func accept(string) bool { return true }
func reject(string) bool { return false }

func TestMFA_Lifecycle(t *testing.T) {
	m := NewMFA("acc-1")
	if m.State() != MFAStateUninitialized {
		t.Fatalf("state = %v, want Uninitialized", m.State())
	}

	if err := m.Verify(accept); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("Verify() without secret err = %v", err)
	}
	if err := m.Validate(accept); !errors.Is(err, ErrMFANotEnabled) {
		t.Fatalf("Validate() before enable err = %v", err)
	}

	m.SetSecret("SECRET", "otpauth://x", false)
	if m.State() != MFAStateSecretGenerated {
		t.Fatalf("state = %v, want SecretGenerated", m.State())
	}

	if err := m.Verify(reject); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify(reject) err = %v", err)
	}
	if m.OTPEnabled || m.OTPVerified {
		t.Fatalf("failed verify must not enable: %+v", m)
	}

	var seen string
	if err := m.Verify(func(secret string) bool { seen = secret; return true }); err != nil {
		t.Fatalf("Verify() err = %v", err)
	}
	if seen != "SECRET" {
		t.Fatalf("check received %q, want stored secret", seen)
	}
	if !m.OTPEnabled || !m.OTPVerified || m.State() != MFAStateEnabled {
		t.Fatalf("verify must enable: %+v", m)
	}

	if err := m.Validate(reject); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Validate(reject) err = %v", err)
	}
	if err := m.Validate(accept); err != nil {
		t.Fatalf("Validate(accept) err = %v", err)
	}
	if !m.OTPEnabled {
		t.Fatalf("validate must not change flags")
	}

	m.Disable()
	if *m != (MFA{AccountID: "acc-1"}) {
		t.Fatalf("disable must reset everything: %+v", m)
	}
}

func TestMFA_SetSecret(t *testing.T) {
	tests := []struct {
		name        string
		reset       bool
		wantEnabled bool
	}{
		{name: "KeepsEnablement", reset: false, wantEnabled: true},
		{name: "ResetsEnablement", reset: true, wantEnabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MFA{AccountID: "a", OTPEnabled: true, OTPVerified: true, OTPSecret: "OLD", OTPAuthURL: "old"}

			m.SetSecret("NEW", "new", tt.reset)

			if m.OTPSecret != "NEW" || m.OTPAuthURL != "new" {
				t.Fatalf("secret not replaced: %+v", m)
			}
			if m.OTPEnabled != tt.wantEnabled || m.OTPVerified != tt.wantEnabled {
				t.Fatalf("flags = %v/%v, want %v", m.OTPEnabled, m.OTPVerified, tt.wantEnabled)
			}
		})
	}
}

func TestMFAState_String(t *testing.T) {
	tests := map[MFAState]string{
		MFAStateUninitialized:   "Uninitialized",
		MFAStateSecretGenerated: "SecretGenerated",
		MFAStateEnabled:         "Enabled",
		MFAState(9):             "Uninitialized",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", s, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("NormalizeEmail() = %q", got)
	}
}
