package inbound

import (
	"encoding/base64"

	"github.com/migorithm/authotp/internal/account/usecase"
	"github.com/migorithm/authotp/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for registration and TOTP workflows.
type HTTPEndpoint struct {
	uc uc
}

// Register creates a new account with an empty MFA record.
// @Summary Register account
// @Tags Account
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Registered account"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /auth/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Credential: req.secret(),
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{UserResponse{
		ID:    resp.ID,
		Name:  resp.Name,
		Email: resp.Email,
	}}, nil
}

// Login checks the credential and reports whether a TOTP step must follow.
// @Summary Authenticate account
// @Tags Account
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authenticated account"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:      req.Email,
		Credential: req.secret(),
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		UserResponse: UserResponse{
			ID:    resp.ID,
			Name:  resp.Name,
			Email: resp.Email,
		},
		OTPEnabled: resp.OTPEnabled,
	}, nil
}

// OTPGenerate issues a new TOTP secret for the account.
// @Summary Generate TOTP secret
// @Tags Account, MFA
// @Accept json
// @Produce json
// @Param request body OTPGenerateRequest true "Generate payload"
// @Success 200 {object} router.successResponse{data=OTPGenerateResponse} "Secret and provisioning URI"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /auth/otp/generate [post]
func (h *HTTPEndpoint) OTPGenerate(r *router.Request) (any, error) {
	var req OTPGenerateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OTPGenerate(r.Context(), usecase.OTPGenerateInput{
		AccountID: req.AccountID,
		Email:     req.Email,
	})
	if err != nil {
		return nil, err
	}

	out := OTPGenerateResponse{
		Base32:     resp.Secret,
		OTPAuthURL: resp.AuthURL,
	}
	if len(resp.QRCode) > 0 {
		out.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(resp.QRCode)
	}

	return out, nil
}

// OTPVerify confirms the first token and enables two-factor authentication.
// @Summary Verify TOTP token
// @Tags Account, MFA
// @Accept json
// @Produce json
// @Param request body OTPTokenRequest true "Token payload"
// @Success 200 {object} router.successResponse{data=OTPVerifyResponse} "Enabled"
// @Failure 401 {object} router.errorResponse "Invalid token"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 412 {object} router.errorResponse "Secret not generated"
// @Router /auth/otp/verify [post]
func (h *HTTPEndpoint) OTPVerify(r *router.Request) (any, error) {
	var req OTPTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OTPVerify(r.Context(), usecase.OTPVerifyInput{
		AccountID: req.AccountID,
		Token:     req.Token,
	}); err != nil {
		return nil, err
	}

	return OTPVerifyResponse{OTPVerified: true, OTPEnabled: true}, nil
}

// OTPValidate checks a login-time token.
// @Summary Validate TOTP token
// @Tags Account, MFA
// @Accept json
// @Produce json
// @Param request body OTPTokenRequest true "Token payload"
// @Success 200 {object} router.successResponse{data=OTPValidateResponse} "Valid"
// @Failure 401 {object} router.errorResponse "Invalid token"
// @Failure 403 {object} router.errorResponse "Two-factor authentication not enabled"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /auth/otp/validate [post]
func (h *HTTPEndpoint) OTPValidate(r *router.Request) (any, error) {
	var req OTPTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OTPValidate(r.Context(), usecase.OTPVerifyInput{
		AccountID: req.AccountID,
		Token:     req.Token,
	}); err != nil {
		return nil, err
	}

	return OTPValidateResponse{OTPValid: true}, nil
}

// OTPDisable turns two-factor authentication off and forgets the secret.
// @Summary Disable TOTP
// @Tags Account, MFA
// @Accept json
// @Produce json
// @Param request body OTPDisableRequest true "Disable payload"
// @Success 200 {object} router.successResponse{data=OTPDisableResponse} "Disabled"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /auth/otp/disable [post]
func (h *HTTPEndpoint) OTPDisable(r *router.Request) (any, error) {
	var req OTPDisableRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OTPDisable(r.Context(), usecase.OTPDisableInput{AccountID: req.AccountID}); err != nil {
		return nil, err
	}

	return OTPDisableResponse{OTPDisabled: true}, nil
}

func (h *HTTPEndpoint) OTPStatus(r *router.Request) (any, error) {
	resp, err := h.uc.OTPStatus(r.Context(), usecase.OTPStatusInput{AccountID: r.GetParam("account_id")})
	if err != nil {
		return nil, err
	}

	return OTPStatusResponse{
		AccountID:   resp.AccountID,
		OTPEnabled:  resp.OTPEnabled,
		OTPVerified: resp.OTPVerified,
		HasSecret:   resp.HasSecret,
		State:       resp.State.String(),
	}, nil
}
