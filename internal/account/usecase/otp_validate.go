package usecase

import (
	"context"
	"strings"

	"github.com/migorithm/authotp/internal/account/entity"
)

// OTPValidate checks a login-time token against an enabled secret. The check
// runs while the store holds the record and leaves it unchanged.
func (s *Usecase) OTPValidate(ctx context.Context, in OTPVerifyInput) error {
	ctx, span := s.startSpan(ctx, "OTPValidate")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)
	in.Token = strings.TrimSpace(in.Token)

	check := s.tokenCheck(in.Token)
	if _, err := s.repoStore.UpdateMFA(ctx, in.AccountID, func(m *entity.MFA) error {
		return m.Validate(check)
	}); err != nil {
		return s.mfaError(ctx, "OTPValidate", in.AccountID, err)
	}

	return nil
}
