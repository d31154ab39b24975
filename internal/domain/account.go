package domain

import "time"

// Account is a trader profile that connectors sync trades into.
type Account struct {
	AccountID string
	Email     string
	SyncToken string // opaque per-account token sent by the connector; empty until issued
	CreatedAt time.Time
}
