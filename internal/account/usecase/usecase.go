package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/migorithm/authotp/internal/account/entity"
	"github.com/migorithm/authotp/internal/pkg/clock"
	"github.com/migorithm/authotp/internal/pkg/config"
	"github.com/migorithm/authotp/internal/pkg/goerror"
	"github.com/migorithm/authotp/internal/pkg/hash"
	"github.com/migorithm/authotp/internal/pkg/instrument"
	"github.com/migorithm/authotp/internal/pkg/otp"
	"github.com/migorithm/authotp/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type AccountRegisteredEvent struct {
	AccountID string
	Email     string
	Name      string
	At        time.Time
}

type MFAChangedEvent struct {
	AccountID string
	At        time.Time
}

type repoMessaging interface {
	PublishAccountRegistered(ctx context.Context, msg AccountRegisteredEvent) error
	PublishMFAEnabled(ctx context.Context, msg MFAChangedEvent) error
	PublishMFADisabled(ctx context.Context, msg MFAChangedEvent) error
}

type repoStore interface {
	Register(ctx context.Context, email, name, credential string) (*entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
	FindUserByID(ctx context.Context, id string) (*entity.User, error)
	FindMFAByAccount(ctx context.Context, accountID string) (*entity.MFA, error)
	UpdateMFA(ctx context.Context, accountID string, fn func(*entity.MFA) error) (*entity.MFA, error)
}

type Usecase struct {
	repoStore     repoStore
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	credential    hash.Hash
	totp          otp.OTP
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoStore     repoStore
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Credential    hash.Hash
	Totp          otp.OTP
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		credential:    dep.Credential,
		totp:          dep.Totp,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

var businessErrors = map[error]struct {
	msg  string
	code goerror.Code
}{
	entity.ErrDuplicateEmail:     {"Email already registered", goerror.CodeConflict},
	entity.ErrAccountNotFound:    {"Account not found", goerror.CodeNotFound},
	entity.ErrInvalidCredentials: {"Invalid email or credential", goerror.CodeUnauthorized},
	entity.ErrSecretMissing:      {"OTP secret has not been generated", goerror.CodePreconditionFailed},
	entity.ErrInvalidToken:       {"Token is invalid", goerror.CodeUnauthorized},
	entity.ErrMFANotEnabled:      {"Two-factor authentication is not enabled", goerror.CodeForbidden},
}

// business wraps an entity sentinel into the client-facing error so
// errors.Is(err, sentinel) keeps working for callers.
func business(sentinel error) error {
	be, ok := businessErrors[sentinel]
	if !ok {
		return goerror.NewServer(sentinel)
	}
	return goerror.NewBusinessFrom(sentinel, be.msg, be.code)
}

// mfaError translates the outcome of a store MFA operation. Entity
// sentinels become business errors, a missing record becomes
// ErrAccountNotFound and anything else is a server fault.
func (s *Usecase) mfaError(ctx context.Context, op, accountID string, err error) error {
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "op", op, "account_id", accountID)
		return business(entity.ErrAccountNotFound)
	}

	for sentinel := range businessErrors {
		if errors.Is(err, sentinel) {
			slog.WarnContext(ctx, "otp rejected", "op", op, "account_id", accountID, "reason", sentinel.Error())
			return business(sentinel)
		}
	}

	slog.ErrorContext(ctx, "failed to repo update mfa", "op", op, "account_id", accountID, "error", err)
	return goerror.NewServer(err)
}

// tokenCheck binds token and the current time into the secret predicate the
// entity state machine expects.
func (s *Usecase) tokenCheck(token string) func(secret string) bool {
	now := s.clock.Now()
	return func(secret string) bool {
		return s.totp.Validate(token, secret, now)
	}
}
