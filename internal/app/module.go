package app

import (
	"github.com/migorithm/authotp/internal/account"
)

func (a *App) initModules() error {
	if !a.config.GetBool("modules.account.enabled") {
		return nil
	}

	store, err := account.New(account.Dependency{
		Router:     a.router,
		Messaging:  a.messaging,
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Credential: a.credential,
		Clock:      a.clock,
		Totp:       a.totp,
		Validator:  a.validator,
	})
	if err != nil {
		return err
	}

	a.accountStore = store
	return nil
}
