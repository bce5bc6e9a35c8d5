// Package credstore is the durable credential store shared by the session
// manager and the API client. The two components never reference each other;
// this store is their only coupling.
package credstore

import "github.com/avrentops/rentalctl/internal/domain"

// Store persists exactly two records: the token pair and the cached user.
// A missing record is reported as (nil, nil), not as an error — an absent
// credential is a normal state, the server decides what it means.
type Store interface {
	Tokens() (*domain.TokenPair, error)
	SetTokens(*domain.TokenPair) error
	User() (*domain.User, error)
	SetUser(*domain.User) error
	// Clear removes both records. It must succeed on an already-empty store.
	Clear() error
}
