// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package authstate holds the client-side session state for SDK consumers.

The store is a single-writer state container: the only way to change it
is through the five named actions (SetCredentials, SetLoading, SetError,
Logout, Restore). Consumers read immutable snapshots and may subscribe to
change notifications; they never mutate fields directly.

# Invariant

Token and User are set and cleared together. No action can produce a state
where one is present without the other, so Authenticated() is always a
reliable single check.
*/
package authstate

import (
	"errors"
	"sync"

	"github.com/rackline/rackline/pkg/identity"
)

// ErrIncompleteCredential is returned when an action would break the
// token/user pairing.
var ErrIncompleteCredential = errors.New("authstate: token and user must be provided together")

// # State

// State is an immutable snapshot of the session.
type State struct {
	// Token is the bearer token attached to outbound requests.
	Token string

	// User is the authenticated user record, nil when signed out.
	User *identity.User

	// Loading reports whether a verification call is in flight.
	// It starts true so consumers render a pending state until the
	// initializer's first verification resolves.
	Loading bool

	// Error holds the most recent failure message, empty when none.
	Error string
}

// Authenticated reports whether the snapshot carries a full credential.
func (state State) Authenticated() bool {
	return state.Token != "" && state.User != nil
}

// # Store

// Listener receives a snapshot after every state change.
type Listener func(State)

// CredentialCache persists credentials across process restarts.
//
// It is the CLI analog of browser storage: Logout wipes it, and the
// initializer may seed the store from it before verification completes.
type CredentialCache interface {
	Save(token string, user *identity.User) error
	Load() (token string, user *identity.User, err error)
	Clear() error
}

// Store is the global auth state container.
type Store struct {
	mu        sync.Mutex
	state     State
	cache     CredentialCache
	listeners map[int]Listener
	nextID    int
}

// NewStore constructs a store in the initial loading state.
//
// cache may be nil, in which case credentials live only in memory.
func NewStore(cache CredentialCache) *Store {
	return &Store{
		state:     State{Loading: true},
		cache:     cache,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns the current state.
func (store *Store) Snapshot() State {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state
}

// Token returns the current bearer token, empty when signed out.
//
// Request layers call this at send time rather than capturing the token
// once, so a logout between calls is always observed.
func (store *Store) Token() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.Token
}

// # Actions

// SetCredentials stores a full credential and clears loading and error.
//
// Rejects partial credentials: both token and user are required.
func (store *Store) SetCredentials(token string, user *identity.User) error {
	if token == "" || user == nil {
		return ErrIncompleteCredential
	}

	store.mu.Lock()
	store.state = State{Token: token, User: user}
	snapshot := store.state
	store.mu.Unlock()

	if store.cache != nil {
		_ = store.cache.Save(token, user)
	}

	store.notify(snapshot)
	return nil
}

// SetLoading toggles the loading flag without touching anything else.
func (store *Store) SetLoading(loading bool) {
	store.mu.Lock()
	store.state.Loading = loading
	snapshot := store.state
	store.mu.Unlock()

	store.notify(snapshot)
}

// SetError records a failure message and clears loading.
func (store *Store) SetError(message string) {
	store.mu.Lock()
	store.state.Error = message
	store.state.Loading = false
	snapshot := store.state
	store.mu.Unlock()

	store.notify(snapshot)
}

// Logout clears the credential pair, the loading flag, and the error,
// and wipes the persistent cache.
//
// Logout is idempotent: calling it on a signed-out store is a no-op
// beyond re-notifying listeners.
func (store *Store) Logout() {
	store.mu.Lock()
	store.state = State{}
	snapshot := store.state
	store.mu.Unlock()

	if store.cache != nil {
		_ = store.cache.Clear()
	}

	store.notify(snapshot)
}

// Restore bulk-overwrites the state, used for hydration from the cache.
//
// The token/user pairing is still enforced: an asymmetric snapshot is
// rejected rather than stored.
func (store *Store) Restore(snapshot State) error {
	if (snapshot.Token == "") != (snapshot.User == nil) {
		return ErrIncompleteCredential
	}

	store.mu.Lock()
	store.state = snapshot
	store.mu.Unlock()

	store.notify(snapshot)
	return nil
}

// # Subscriptions

// Subscribe registers a listener and returns its removal function.
//
// Listeners run synchronously on the acting goroutine, after the state
// change is committed.
func (store *Store) Subscribe(listener Listener) (remove func()) {
	store.mu.Lock()
	id := store.nextID
	store.nextID++
	store.listeners[id] = listener
	store.mu.Unlock()

	return func() {
		store.mu.Lock()
		delete(store.listeners, id)
		store.mu.Unlock()
	}
}

// notify fans a snapshot out to all listeners outside the lock.
func (store *Store) notify(snapshot State) {
	store.mu.Lock()
	listeners := make([]Listener, 0, len(store.listeners))
	for _, listener := range store.listeners {
		listeners = append(listeners, listener)
	}
	store.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}
