// Package tokenstore persists the single Dataverse credential record that is
// shared by all worker processes of the server.
package tokenstore

import "context"

// Credentials is the one durable record of the authentication subsystem.
// ExpiresAt is an absolute epoch-millisecond timestamp; the record is only
// trusted while now is safely before it.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// Store reads and writes the credential record.
//
// Load returns (nil, nil) when no record exists. Save fully replaces any
// previous record; there are no partial updates. Clear on an already-absent
// record is not an error.
type Store interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds *Credentials) error
	Clear(ctx context.Context) error
}
