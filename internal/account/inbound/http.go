package inbound

import (
	"context"
	"strings"

	"github.com/migorithm/authotp/internal/account/usecase"
	"github.com/migorithm/authotp/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	OTPGenerate(ctx context.Context, in usecase.OTPGenerateInput) (*usecase.OTPGenerateOutput, error)
	OTPVerify(ctx context.Context, in usecase.OTPVerifyInput) error
	OTPValidate(ctx context.Context, in usecase.OTPVerifyInput) error
	OTPDisable(ctx context.Context, in usecase.OTPDisableInput) error
	OTPStatus(ctx context.Context, in usecase.OTPStatusInput) (*usecase.OTPStatusOutput, error)
}

// RegisterHTTPEndpoint mounts the account routes under prefix, e.g. "/auth".
func RegisterHTTPEndpoint(r *router.Router, uc uc, prefix string) {
	end := &HTTPEndpoint{uc: uc}
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	r.POST(prefix+"/register", end.Register)
	r.POST(prefix+"/login", end.Login)

	// MFA (TOTP)
	r.POST(prefix+"/otp/generate", end.OTPGenerate)
	r.POST(prefix+"/otp/verify", end.OTPVerify)
	r.POST(prefix+"/otp/validate", end.OTPValidate)
	r.POST(prefix+"/otp/disable", end.OTPDisable)
	r.GET(prefix+"/otp/status/:account_id", end.OTPStatus)
}
