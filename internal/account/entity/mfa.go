package entity

// MFAState is the derived lifecycle position of an MFA record.
type MFAState int8

const (
	// MFAStateUninitialized mean no secret has been issued.
	MFAStateUninitialized MFAState = 0

	// MFAStateSecretGenerated mean a secret exists but no token has been verified.
	MFAStateSecretGenerated MFAState = 1

	// MFAStateEnabled mean a token was verified and login requires a second factor.
	MFAStateEnabled MFAState = 2
)

func (s MFAState) String() string {
	switch s {
	case MFAStateSecretGenerated:
		return "SecretGenerated"
	case MFAStateEnabled:
		return "Enabled"
	default:
		return "Uninitialized"
	}
}

// MFA is the per-account second factor record. Empty OTPSecret and
// OTPAuthURL mean absent.
//
// OTPEnabled implies OTPVerified, and OTPVerified implies a secret.
type MFA struct {
	AccountID   string
	OTPEnabled  bool
	OTPVerified bool
	OTPSecret   string
	OTPAuthURL  string
}

func NewMFA(accountID string) *MFA {
	return &MFA{AccountID: accountID}
}

func (m *MFA) HasSecret() bool {
	return m.OTPSecret != ""
}

func (m *MFA) State() MFAState {
	switch {
	case m.OTPEnabled:
		return MFAStateEnabled
	case m.HasSecret():
		return MFAStateSecretGenerated
	default:
		return MFAStateUninitialized
	}
}

// SetSecret replaces the secret and provisioning URL. The enablement flags
// are kept unless resetEnablement is set, in which case the account must
// verify the new secret before it is enabled again.
func (m *MFA) SetSecret(secret, authURL string, resetEnablement bool) {
	m.OTPSecret = secret
	m.OTPAuthURL = authURL

	if resetEnablement {
		m.OTPEnabled = false
		m.OTPVerified = false
	}
}

// Verify confirms the first token for the stored secret and enables MFA.
// A failed check leaves the record untouched.
func (m *MFA) Verify(check func(secret string) bool) error {
	if !m.HasSecret() {
		return ErrSecretMissing
	}

	if !check(m.OTPSecret) {
		return ErrInvalidToken
	}

	m.OTPEnabled = true
	m.OTPVerified = true

	return nil
}

// Validate checks a login-time token. It never mutates the record.
func (m *MFA) Validate(check func(secret string) bool) error {
	if !m.OTPEnabled {
		return ErrMFANotEnabled
	}

	if !m.HasSecret() {
		return ErrSecretMissing
	}

	if !check(m.OTPSecret) {
		return ErrInvalidToken
	}

	return nil
}

// Disable returns the record to MFAStateUninitialized.
func (m *MFA) Disable() {
	m.OTPEnabled = false
	m.OTPVerified = false
	m.OTPSecret = ""
	m.OTPAuthURL = ""
}
