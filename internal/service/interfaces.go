// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the session lifecycle of the TrackVia client: the
// OAuth2 password login, account resolution and the background job that
// refreshes the access token before it expires.
package service

import (
	"context"

	"github.com/MKhiriev/trackvia-go/models"
	"golang.org/x/oauth2"
)

// Session owns the authentication state of one client.
//
// The current [models.TokenState] is replaced wholesale on every successful
// Login or Refresh. Readers never observe a partially written state.
type Session interface {
	oauth2.TokenSource

	// Login performs the password grant against /oauth/token and stores the
	// returned TokenState. Returns an error wrapping ErrAuth if the request
	// fails or is rejected, or ErrProtocol if the response is malformed.
	Login(ctx context.Context) (models.TokenState, error)

	// ResolveAccount fetches GET /users with the current access token and
	// returns the first account. Returns ErrAccountResolution if the user has
	// no accounts.
	ResolveAccount(ctx context.Context) (models.AccountContext, error)

	// Refresh exchanges the current refresh token for a new TokenState and
	// stores it. On failure the previous TokenState is kept.
	Refresh(ctx context.Context) (models.TokenState, error)

	// Current returns the stored TokenState and whether one exists.
	Current() (models.TokenState, bool)
}

// RefreshJob keeps the session's access token valid in the background.
type RefreshJob interface {
	// Start arms the refresh timer for state and launches the background
	// goroutine. Any previously running job is stopped first.
	Start(ctx context.Context, state models.TokenState)

	// Run starts the job for the session's current TokenState.
	Run(ctx context.Context)

	// Stop cancels the pending timer and any in-flight refresh and waits for
	// the goroutine to exit. Safe to call repeatedly and from any goroutine.
	Stop()
}
