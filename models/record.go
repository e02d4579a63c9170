package models

import "io"

// DefaultPageSize is the number of rows requested when a page size is not
// given.
const DefaultPageSize = 50

// FindRecordsParams selects records from a view with GET
// /openapi/views/{viewId}/find.
type FindRecordsParams struct {
	// ViewID is the view to search. Required.
	ViewID string
	// Query is the free-text search expression. Empty matches every record.
	Query string
	// Start is the zero-based offset of the first record.
	Start int
	// Max is the page size. Zero means [DefaultPageSize].
	Max int
}

// FileParams addresses a file field of a single record.
type FileParams struct {
	ViewID    string
	RecordID  string
	FieldName string
}

// AttachFileParams describes a file upload into a record field.
type AttachFileParams struct {
	FileParams

	// FileName is reported to the server as the uploaded file name.
	FileName string

	// Content is streamed as the file body.
	Content io.Reader
}
