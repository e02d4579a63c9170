// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the trackvia command-line application.
//
// It turns the merged configuration into a TrackVia session, runs one
// command, prints the response body as JSON and, in watch mode, keeps the
// session (and its token refresh) alive until SIGINT or SIGTERM. Signal
// handling lives here so the library itself never installs handlers.
package client
