// Package store holds the injectable persistence interfaces for OAuth
// state and token records, so handlers never touch a process-wide map
// and tests can substitute in-memory fakes.
package store

import (
	"context"
	"time"
)

// StateRecord is a single-use PKCE state entry. It is consumed atomically
// by TakeState or expires after its TTL.
type StateRecord struct {
	CodeVerifier string    `json:"codeVerifier"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// TokenRecord is the live token pair for one installation.
type TokenRecord struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// StateStore persists short-lived OAuth state records.
type StateStore interface {
	// PutState stores the record under state for ttl.
	PutState(ctx context.Context, state string, rec StateRecord, ttl time.Duration) error
	// TakeState returns and deletes the record in one step, guaranteeing
	// single use. A missing or expired state yields an error wrapping
	// logging.ErrState.
	TakeState(ctx context.Context, state string) (StateRecord, error)
}

// TokenStore persists at most one live token record per installation,
// upserted on refresh.
type TokenStore interface {
	SaveToken(ctx context.Context, installationID string, rec TokenRecord) error
	GetToken(ctx context.Context, installationID string) (TokenRecord, error)
}
