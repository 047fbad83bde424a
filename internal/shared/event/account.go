package event

import "time"

const AccountRegisteredDestination string = "account_registered"

type AccountRegisteredMessage struct {
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

const AccountMFAEnabledDestination string = "account_mfa_enabled"

type AccountMFAEnabledMessage struct {
	AccountID string    `json:"account_id"`
	EnabledAt time.Time `json:"enabled_at"`
}

const AccountMFADisabledDestination string = "account_mfa_disabled"

type AccountMFADisabledMessage struct {
	AccountID  string    `json:"account_id"`
	DisabledAt time.Time `json:"disabled_at"`
}
