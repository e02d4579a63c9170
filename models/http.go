package models

import (
	"io"
	"net/http"
	"net/url"
)

// Request describes one HTTP call to the TrackVia API. At most one of Form,
// JSON and File is set; a Request with none of them has no body.
type Request struct {
	// Method is the HTTP verb (GET, POST, PUT, DELETE).
	Method string

	// Path is the URL path relative to the configured base URL, already
	// escaped, e.g. "/openapi/views/12/records".
	Path string

	// Query holds URL query parameters.
	Query url.Values

	// Form is sent url-encoded as the request body.
	Form url.Values

	// JSON is marshalled and sent as an application/json body.
	JSON any

	// File is sent as a multipart/form-data body.
	File *FilePart
}

// FilePart is a single file carried in a multipart request body.
type FilePart struct {
	// Field is the multipart form field name. The API expects "file".
	Field string
	// FileName is the name reported for the uploaded file.
	FileName string
	// Content is read until EOF while the request is sent.
	Content io.Reader
}

// Response is the outcome of a request that reached the server.
type Response struct {
	// StatusCode is the HTTP status returned by the server.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the decoded JSON document (map[string]any, []any, string,
	// float64, bool or nil) when the payload is valid JSON, and the raw
	// payload as []byte otherwise.
	Body any

	// Raw is the undecoded payload.
	Raw []byte
}

// IsJSON reports whether Body holds a decoded JSON value.
func (r Response) IsJSON() bool {
	_, raw := r.Body.([]byte)
	return !raw
}

// DataEnvelope is the JSON body shape used by record create and update calls.
type DataEnvelope struct {
	Data any `json:"data"`
}
