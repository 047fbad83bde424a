package account

import (
	"github.com/migorithm/authotp/internal/account/inbound"
	"github.com/migorithm/authotp/internal/account/outbound/memstore"
	"github.com/migorithm/authotp/internal/account/outbound/mq"
	"github.com/migorithm/authotp/internal/account/usecase"
	"github.com/migorithm/authotp/internal/pkg/clock"
	"github.com/migorithm/authotp/internal/pkg/config"
	"github.com/migorithm/authotp/internal/pkg/hash"
	"github.com/migorithm/authotp/internal/pkg/instrument"
	"github.com/migorithm/authotp/internal/pkg/messaging"
	"github.com/migorithm/authotp/internal/pkg/otp"
	"github.com/migorithm/authotp/internal/pkg/router"
	"github.com/migorithm/authotp/internal/pkg/uid"
	"github.com/migorithm/authotp/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Credential hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// New wires the account module and mounts its routes. The returned store is
// the single in-memory account store owned by this module.
func New(dep Dependency) (*memstore.Store, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	store := memstore.NewStore(dep.Instrument, dep.UUID)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoStore:     store,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Credential:    dep.Credential,
		Totp:          dep.Totp,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config.GetString("modules.account.route_prefix"))

	return store, nil
}
