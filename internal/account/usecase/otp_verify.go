package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/migorithm/authotp/internal/account/entity"
)

type OTPVerifyInput struct {
	AccountID string
	Token     string
}

// OTPVerify confirms the first token for a generated secret and enables
// two-factor authentication.
func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) error {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)
	in.Token = strings.TrimSpace(in.Token)

	var wasEnabled bool
	check := s.tokenCheck(in.Token)
	mfa, err := s.repoStore.UpdateMFA(ctx, in.AccountID, func(m *entity.MFA) error {
		wasEnabled = m.OTPEnabled
		return m.Verify(check)
	})
	if err != nil {
		return s.mfaError(ctx, "OTPVerify", in.AccountID, err)
	}

	if !wasEnabled {
		if err := s.repoMessaging.PublishMFAEnabled(ctx, MFAChangedEvent{
			AccountID: mfa.AccountID,
			At:        s.clock.Now(),
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish mfa enabled", "account_id", mfa.AccountID, "error", err)
		}
	}

	return nil
}
