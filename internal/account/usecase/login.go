package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/migorithm/authotp/internal/account/entity"
	"github.com/migorithm/authotp/internal/pkg/goerror"
)

type LoginInput struct {
	Email      string `validate:"required,email"`
	Credential string `validate:"required"`
}

type LoginOutput struct {
	ID    string
	Email string
	Name  string
	// OTPEnabled tells the client a ValidateOTP step must follow.
	OTPEnabled bool
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoStore.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "email", in.Email)
		return nil, business(entity.ErrInvalidCredentials)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.credential.Verify(user.Credential, in.Credential) {
		slog.WarnContext(ctx, "credential not match", "account_id", user.ID)
		return nil, business(entity.ErrInvalidCredentials)
	}

	mfa, err := s.repoStore.FindMFAByAccount(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find mfa by account", "account_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		OTPEnabled: mfa.OTPEnabled,
	}, nil
}
