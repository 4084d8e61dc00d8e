// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the console's current operator identity.

The [Store] is the single source of truth for "who is logged in". It is an
explicit value handed to the route guard, the resource client and the auth
gateway, so tests can run several independent sessions side by side.

Persistence:

  - token: the opaque bearer string.
  - user: the serialized identity JSON. A corrupt value reads as "no session".
*/
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// ErrEmptyToken rejects an identity without a bearer token.
var ErrEmptyToken = errors.New("session: token is required")

// Session is an immutable snapshot of the store.
//
// Authenticated is always equal to Identity != nil.
type Session struct {
	Identity      *auth.Identity
	Authenticated bool
}

// Role returns the identity role, or "" when unauthenticated.
func (s Session) Role() sec.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Can reports whether the identity holds permission.
func (s Session) Can(permission sec.Permission) bool {
	return s.Identity != nil && sec.HasPermission(s.Identity.Permissions, permission)
}

// Store owns the current identity and its durable copy.
type Store struct {
	mu          sync.RWMutex
	storage     Storage
	identity    *auth.Identity
	token       string
	initialized bool
}

// NewStore returns an empty, unauthenticated store over storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

/*
Initialize rehydrates the session from storage.

Description: Only the first call reads storage; later calls return the
current snapshot. A missing or undecodable user entry leaves the session
unauthenticated without reporting an error.

Returns:
  - Session: The snapshot after loading
  - error: Storage read failures
*/
func (store *Store) Initialize(ctx context.Context) (Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.initialized {
		return store.snapshot(), nil
	}

	raw, ok, err := store.storage.Get(ctx, KeyUser)
	if err != nil {
		return store.snapshot(), err
	}
	store.initialized = true

	if !ok {
		return store.snapshot(), nil
	}

	identity, decodeErr := decodeIdentity(raw)
	if decodeErr != nil {
		return store.snapshot(), nil
	}

	token, _, err := store.storage.Get(ctx, KeyToken)
	if err != nil {
		return store.snapshot(), err
	}

	store.identity = identity
	store.token = token
	return store.snapshot(), nil
}

func decodeIdentity(raw string) (*auth.Identity, error) {
	var identity auth.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" || !identity.Role.Valid() {
		return nil, errors.New("session: incomplete identity")
	}
	return &identity, nil
}

/*
SetIdentity persists identity and token and marks the session authenticated.

Description: Any prior identity is overwritten. Memory is only updated after
both keys are written; if the second write fails the first is undone, so a
failure leaves the previous session in place.
*/
func (store *Store) SetIdentity(ctx context.Context, identity auth.Identity, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	encoded, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("session: encode identity: %w", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	previousToken := store.token
	if err := store.storage.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if err := store.storage.Set(ctx, KeyUser, string(encoded)); err != nil {
		if previousToken == "" {
			_ = store.storage.Delete(ctx, KeyToken)
		} else {
			_ = store.storage.Set(ctx, KeyToken, previousToken)
		}
		return err
	}

	store.identity = &identity
	store.token = token
	store.initialized = true
	return nil
}

// Clear erases the persisted identity and marks the session unauthenticated.
// Memory is cleared even when storage fails; the storage error is returned.
func (store *Store) Clear(ctx context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.identity = nil
	store.token = ""
	store.initialized = true

	return errors.Join(
		store.storage.Delete(ctx, KeyToken),
		store.storage.Delete(ctx, KeyUser),
	)
}

// Snapshot returns the current session.
func (store *Store) Snapshot() Session {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshot()
}

// Token returns the current bearer token, or "" when unauthenticated.
func (store *Store) Token() string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.token
}

func (store *Store) snapshot() Session {
	if store.identity == nil {
		return Session{}
	}
	identity := *store.identity
	identity.Permissions = append([]sec.Permission(nil), store.identity.Permissions...)
	return Session{Identity: &identity, Authenticated: true}
}
