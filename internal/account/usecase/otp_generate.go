package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/migorithm/authotp/internal/account/entity"
	"github.com/migorithm/authotp/internal/pkg/goerror"
)

type OTPGenerateInput struct {
	AccountID string
	// Email labels the provisioning URI. Blank uses the registered email.
	Email string
}

type OTPGenerateOutput struct {
	Secret  string
	AuthURL string
	// QRCode is the PNG rendering of AuthURL, nil when disabled by config.
	QRCode []byte
}

// OTPGenerate issues a fresh secret for the account and replaces any previous
// one. Whether an enabled account stays enabled is controlled by
// modules.account.mfa.regenerate_resets_enabled.
func (s *Usecase) OTPGenerate(ctx context.Context, in OTPGenerateInput) (*OTPGenerateOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPGenerate")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)
	in.Email = strings.TrimSpace(in.Email)

	user, err := s.repoStore.FindUserByID(ctx, in.AccountID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "account_id", in.AccountID)
		return nil, business(entity.ErrAccountNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find user by id", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	label := in.Email
	if label == "" {
		label = user.Email
	}

	secret, uri, err := s.totp.Generate(label)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "account_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	var qr []byte
	if size := s.cfg.GetInt("mfa.totp.qr_size"); size > 0 {
		qr, err = s.totp.QRCode(uri, size)
		if err != nil {
			slog.ErrorContext(ctx, "failed to render totp qr code", "account_id", user.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	resetEnablement := s.cfg.GetBool("modules.account.mfa.regenerate_resets_enabled")
	if _, err := s.repoStore.UpdateMFA(ctx, user.ID, func(m *entity.MFA) error {
		m.SetSecret(secret, uri, resetEnablement)
		return nil
	}); err != nil {
		return nil, s.mfaError(ctx, "OTPGenerate", user.ID, err)
	}

	return &OTPGenerateOutput{
		Secret:  secret,
		AuthURL: uri,
		QRCode:  qr,
	}, nil
}
