// Package memstore is the volatile account and MFA store. Every operation
// runs under one store-wide mutex, so a lookup followed by a mutation inside
// UpdateMFA is atomic with respect to every other call.
package memstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/migorithm/authotp/internal/account/entity"
	"github.com/migorithm/authotp/internal/pkg/goerror"
	"github.com/migorithm/authotp/internal/pkg/instrument"
	"github.com/migorithm/authotp/internal/pkg/uid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Stats struct {
	Users      int
	MFAEnabled int
}

type Store struct {
	ins  instrument.Instrumentation
	uuid uid.StringID

	mu      sync.Mutex
	users   map[string]*entity.User // by id
	byEmail map[string]string       // lower-cased email -> id
	mfas    map[string]*entity.MFA  // by account id
}

func NewStore(ins instrument.Instrumentation, uuid uid.StringID) *Store {
	s := &Store{
		ins:     ins,
		uuid:    uuid,
		users:   map[string]*entity.User{},
		byEmail: map[string]string{},
		mfas:    map[string]*entity.MFA{},
	}

	s.registerGauges()

	return s
}

func (s *Store) registerGauges() {
	meter := s.ins.Meter("account.outbound.memstore")

	users, err := meter.Int64ObservableGauge("account.users", metric.WithDescription("Number of registered accounts"))
	if err != nil {
		slog.Error("failed to create account users gauge", "error", err)
		return
	}

	enabled, err := meter.Int64ObservableGauge("account.mfa_enabled", metric.WithDescription("Number of accounts with MFA enabled"))
	if err != nil {
		slog.Error("failed to create account mfa gauge", "error", err)
		return
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		st := s.Stats(ctx)
		o.ObserveInt64(users, int64(st.Users))
		o.ObserveInt64(enabled, int64(st.MFAEnabled))
		return nil
	}, users, enabled)
	if err != nil {
		slog.Error("failed to register account gauges callback", "error", err)
	}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.outbound.memstore").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Register creates the user and its empty MFA record in one step.
// It returns goerror.ErrConflict when the email is already taken,
// compared case-insensitively.
func (s *Store) Register(ctx context.Context, email, name, credential string) (_ *entity.User, err error) {
	_, span := s.startSpan(ctx, "Register")
	defer func() { s.endSpan(span, err) }()

	email = entity.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, goerror.ErrConflict
	}

	id := s.uuid.Generate()
	for s.users[id] != nil {
		id = s.uuid.Generate()
	}

	user := &entity.User{
		ID:         id,
		Email:      email,
		Name:       name,
		Credential: credential,
	}

	s.users[id] = user
	s.byEmail[email] = id
	s.mfas[id] = entity.NewMFA(id)

	out := *user
	return &out, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	_, span := s.startSpan(ctx, "FindUserByEmail")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	out := *s.users[id]
	return &out, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (_ *entity.User, err error) {
	_, span := s.startSpan(ctx, "FindUserByID")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	out := *user
	return &out, nil
}

func (s *Store) FindMFAByAccount(ctx context.Context, accountID string) (_ *entity.MFA, err error) {
	_, span := s.startSpan(ctx, "FindMFAByAccount")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.mfas[accountID]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	out := *rec
	return &out, nil
}

// UpdateMFA runs fn against a copy of the account's MFA record while holding
// the store lock. The copy replaces the stored record only when fn returns
// nil, and fn's error is returned unchanged otherwise.
func (s *Store) UpdateMFA(ctx context.Context, accountID string, fn func(*entity.MFA) error) (_ *entity.MFA, err error) {
	_, span := s.startSpan(ctx, "UpdateMFA")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.mfas[accountID]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	scratch := *rec
	if err := fn(&scratch); err != nil {
		return nil, err
	}

	*rec = scratch

	out := scratch
	return &out, nil
}

func (s *Store) Stats(context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Users: len(s.users)}
	for _, rec := range s.mfas {
		if rec.OTPEnabled {
			st.MFAEnabled++
		}
	}

	return st
}
