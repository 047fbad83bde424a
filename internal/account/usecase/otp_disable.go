package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/migorithm/authotp/internal/account/entity"
)

type OTPDisableInput struct {
	AccountID string
}

// OTPDisable clears the secret and both flags. It succeeds from any state.
func (s *Usecase) OTPDisable(ctx context.Context, in OTPDisableInput) error {
	ctx, span := s.startSpan(ctx, "OTPDisable")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)

	var wasEnabled bool
	if _, err := s.repoStore.UpdateMFA(ctx, in.AccountID, func(m *entity.MFA) error {
		wasEnabled = m.OTPEnabled
		m.Disable()
		return nil
	}); err != nil {
		return s.mfaError(ctx, "OTPDisable", in.AccountID, err)
	}

	if wasEnabled {
		if err := s.repoMessaging.PublishMFADisabled(ctx, MFAChangedEvent{
			AccountID: in.AccountID,
			At:        s.clock.Now(),
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish mfa disabled", "account_id", in.AccountID, "error", err)
		}
	}

	return nil
}
