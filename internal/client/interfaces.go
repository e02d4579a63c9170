// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/trackvia-go/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/api_mock.go -package=mock

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the configured command and blocks until it is done, or
	// until shutdown when watching.
	Run(ctx context.Context) error
}

// API is the part of *trackvia.Client the CLI drives.
type API interface {
	GetAllApps(ctx context.Context) (models.Response, error)
	GetAllViews(ctx context.Context) (models.Response, error)
	GetView(ctx context.Context, viewID string) (models.Response, error)
	GetAllRecords(ctx context.Context, viewID string, start, limit int) (models.Response, error)
	FindRecords(ctx context.Context, p models.FindRecordsParams) (models.Response, error)
	GetRecord(ctx context.Context, viewID, recordID string) (models.Response, error)
	GetUsers(ctx context.Context, p models.ListUsersParams) (models.Response, error)
	AccountID() string
	Stop()
}
