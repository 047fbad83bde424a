package usecase

import (
	"context"
	"strings"

	"github.com/migorithm/authotp/internal/account/entity"
)

type OTPStatusInput struct {
	AccountID string
}

type OTPStatusOutput struct {
	AccountID   string
	OTPEnabled  bool
	OTPVerified bool
	HasSecret   bool
	State       entity.MFAState
}

func (s *Usecase) OTPStatus(ctx context.Context, in OTPStatusInput) (*OTPStatusOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPStatus")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)

	mfa, err := s.repoStore.FindMFAByAccount(ctx, in.AccountID)
	if err != nil {
		return nil, s.mfaError(ctx, "OTPStatus", in.AccountID, err)
	}

	return &OTPStatusOutput{
		AccountID:   mfa.AccountID,
		OTPEnabled:  mfa.OTPEnabled,
		OTPVerified: mfa.OTPVerified,
		HasSecret:   mfa.HasSecret(),
		State:       mfa.State(),
	}, nil
}
