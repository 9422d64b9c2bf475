// Copyright (c) 2026 Rackline. All rights reserved.

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/rackline/rackline/internal/platform/ctxkey"
	"github.com/rackline/rackline/pkg/identity"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Session Identity

// WithSessionUser returns a new context with the cookie-derived user attached.
//
// The route gate stores whatever it managed to parse from the user cookie so
// the structured logger can emit user_id without re-reading cookies.
func WithSessionUser(ctx context.Context, user *identity.User) context.Context {
	return context.WithValue(ctx, ctxkey.KeySessionUser, user)
}

// GetSessionUser retrieves the [*identity.User] from the [context.Context].
func GetSessionUser(ctx context.Context) *identity.User {
	user, ok := ctx.Value(ctxkey.KeySessionUser).(*identity.User)
	if !ok {
		return nil
	}
	return user
}
