// Package auth resolves the acting household user for a request.
//
// Two credentials are accepted: a DB-backed session cookie, or a static
// shared-secret API key together with an X-User-Email header naming the user
// to act as. The session path is tried first.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"menage/internal/core"
)

// Store is the subset of the persistence layer the gate needs.
type Store interface {
	// UserIDBySession returns the user owning a live session, or
	// core.ErrNotFound for unknown or expired tokens.
	UserIDBySession(ctx context.Context, token string) (string, error)
	// UserByEmail returns core.ErrNotFound when no user has that email.
	UserByEmail(ctx context.Context, email string) (*core.User, error)
}

// Identity is a resolved acting user. The zero value is never returned
// without an error; callers switch on the error to handle the
// unauthenticated variants exhaustively.
type Identity struct {
	UserID string
}

// Gate implements the dual authentication check.
type Gate struct {
	store  Store
	apiKey string
}

func NewGate(store Store, apiKey string) *Gate {
	return &Gate{store: store, apiKey: apiKey}
}

// Authenticate resolves an identity from the request credentials.
//
// Failure modes, in order of detection:
//   - core.ErrMissingUserHeader: valid API key but no email header (400).
//   - core.ErrNotFound: valid API key but no user with that email (404).
//   - core.ErrUnauthenticated: everything else (401).
func (g *Gate) Authenticate(ctx context.Context, sessionToken, apiKey, userEmail string) (Identity, error) {
	// Session first. A stale or unknown token falls through to the API key
	// path rather than failing outright.
	if sessionToken != "" {
		userID, err := g.store.UserIDBySession(ctx, sessionToken)
		if err == nil {
			return Identity{UserID: userID}, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return Identity{}, fmt.Errorf("session lookup: %w", err)
		}
	}

	if apiKey != "" && g.apiKey != "" &&
		subtle.ConstantTimeCompare([]byte(apiKey), []byte(g.apiKey)) == 1 {
		if userEmail == "" {
			return Identity{}, core.ErrMissingUserHeader
		}
		user, err := g.store.UserByEmail(ctx, userEmail)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return Identity{}, core.ErrNotFound
			}
			return Identity{}, fmt.Errorf("user lookup: %w", err)
		}
		return Identity{UserID: user.ID}, nil
	}

	return Identity{}, core.ErrUnauthenticated
}
