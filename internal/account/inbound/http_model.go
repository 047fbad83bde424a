package inbound

import "net/http"

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Credential string `json:"credential"`
	// Password is the older name of Credential, still accepted.
	Password string `json:"password,omitempty"`
}

func (r RegisterRequest) secret() string {
	return credentialOrPassword(r.Credential, r.Password)
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RegisterResponse struct {
	UserResponse
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterResponse) Message() string {
	return "Registration successful."
}

type LoginRequest struct {
	Email      string `json:"email"`
	Credential string `json:"credential"`
	// Password is the older name of Credential, still accepted.
	Password string `json:"password,omitempty"`
}

func (r LoginRequest) secret() string {
	return credentialOrPassword(r.Credential, r.Password)
}

// credentialOrPassword prefers credential when both fields are sent.
func credentialOrPassword(credential, password string) string {
	if credential != "" {
		return credential
	}
	return password
}

type LoginResponse struct {
	UserResponse
	OTPEnabled bool `json:"otp_enabled"`
}

type OTPGenerateRequest struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

type OTPGenerateResponse struct {
	Base32     string `json:"base32"`
	OTPAuthURL string `json:"otpauth_url"`
	QRCode     string `json:"qr_code,omitempty"`
}

type OTPTokenRequest struct {
	AccountID string `json:"account_id"`
	Token     string `json:"token"`
}

type OTPVerifyResponse struct {
	OTPVerified bool `json:"otp_verified"`
	OTPEnabled  bool `json:"otp_enabled"`
}

func (OTPVerifyResponse) Message() string {
	return "Two-factor authentication enabled."
}

type OTPValidateResponse struct {
	OTPValid bool `json:"otp_valid"`
}

type OTPDisableRequest struct {
	AccountID string `json:"account_id"`
}

type OTPDisableResponse struct {
	OTPDisabled bool `json:"otp_disabled"`
}

func (OTPDisableResponse) Message() string {
	return "Two-factor authentication disabled."
}

type OTPStatusResponse struct {
	AccountID   string `json:"account_id"`
	OTPEnabled  bool   `json:"otp_enabled"`
	OTPVerified bool   `json:"otp_verified"`
	HasSecret   bool   `json:"has_secret"`
	State       string `json:"state"`
}
