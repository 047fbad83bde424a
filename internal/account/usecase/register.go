package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/migorithm/authotp/internal/account/entity"
	"github.com/migorithm/authotp/internal/pkg/goerror"
)

type RegisterInput struct {
	Name       string `validate:"required,displayname"`
	Email      string `validate:"required,email"`
	Credential string `validate:"required,credential"`
}

type RegisterOutput struct {
	ID    string
	Email string
	Name  string
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	hashed, err := s.credential.Hash(in.Credential)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash credential", "error", err)
		return nil, goerror.NewServer(err)
	}

	user, err := s.repoStore.Register(ctx, in.Email, in.Name, string(hashed))
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "email already registered", "email", in.Email)
		return nil, business(entity.ErrDuplicateEmail)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo register account", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishAccountRegistered(ctx, AccountRegisteredEvent{
		AccountID: user.ID,
		Email:     user.Email,
		Name:      user.Name,
		At:        s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish account registered", "account_id", user.ID, "error", err)
	}

	return &RegisterOutput{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}, nil
}
