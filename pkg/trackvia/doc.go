// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package trackvia is a client for the TrackVia REST API.
//
// [New] logs in with the OAuth2 password grant, resolves the account of the
// user and starts a background job that refreshes the access token shortly
// before it expires. Every endpoint call reads the token that is current at
// send time and adds it, together with the API key, to the query string.
//
//	c, err := trackvia.New(ctx, trackvia.Config{
//	    URL:      "https://go.trackvia.com",
//	    Username: "alice@example.com",
//	    Password: os.Getenv("TRACKVIA_PASSWORD"),
//	    APIKey:   os.Getenv("TRACKVIA_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer c.Stop()
//
//	resp, err := c.GetAllRecords(ctx, "12", 0, 50)
//
// Responses are returned as [models.Response]; the body is the decoded JSON
// document, or raw bytes for non-JSON payloads such as file downloads.
//
// Stop must be called when the client is no longer needed so that the
// refresh timer does not outlive it. The library never installs signal
// handlers; processes that want to stop on SIGINT/SIGTERM do so themselves.
package trackvia
