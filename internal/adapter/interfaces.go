// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for talking to the TrackVia
// REST API.
//
// The single abstraction is [Transport], which sends one [models.Request] and
// returns the decoded [models.Response]. The package ships a resty based
// implementation ([NewHTTPTransport]).
//
// Failures that never reached the server wrap [ErrNetwork]. Non-2xx answers
// wrap one of the status sentinels in errors.go (e.g. [ErrUnauthorized] for
// 401) so callers can use [errors.Is]; the response is still returned so the
// caller can inspect the server's payload.
package adapter

import (
	"context"

	"github.com/MKhiriev/trackvia-go/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport sends single HTTP requests to the TrackVia API. Implementations
// must be safe for concurrent use.
type Transport interface {
	// Do sends req and returns the server's response. The body is decoded as
	// JSON when possible and returned as raw bytes otherwise; a non-JSON body
	// is never an error by itself.
	Do(ctx context.Context, req models.Request) (models.Response, error)

	// Close releases idle connections held by the transport. Requests issued
	// after Close still work but open new connections.
	Close()
}
