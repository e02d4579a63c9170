package trackvia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/MKhiriev/trackvia-go/models"
)

// GetFile downloads the file stored in a record field. The response body is
// the raw file content unless the server answers with JSON.
func (c *Client) GetFile(ctx context.Context, p models.FileParams) (models.Response, error) {
	return c.fileCall(ctx, http.MethodGet, p, nil)
}

// DeleteFile removes the file stored in a record field.
func (c *Client) DeleteFile(ctx context.Context, p models.FileParams) (models.Response, error) {
	return c.fileCall(ctx, http.MethodDelete, p, nil)
}

// AttachFile uploads p.Content into a record field as a multipart "file"
// part.
func (c *Client) AttachFile(ctx context.Context, p models.AttachFileParams) (models.Response, error) {
	if p.Content == nil {
		return models.Response{}, fmt.Errorf("%w: file content", ErrMissingParameter)
	}

	name := p.FileName
	if name == "" {
		name = p.FieldName
	}

	return c.fileCall(ctx, http.MethodPost, p.FileParams, &models.FilePart{
		Field:    "file",
		FileName: name,
		Content:  p.Content,
	})
}

// AttachFileFromPath uploads the file at path into a record field.
func (c *Client) AttachFileFromPath(ctx context.Context, p models.FileParams, path string) (models.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Response{}, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	return c.AttachFile(ctx, models.AttachFileParams{
		FileParams: p,
		FileName:   filepath.Base(path),
		Content:    f,
	})
}

func (c *Client) fileCall(ctx context.Context, method string, p models.FileParams, file *models.FilePart) (models.Response, error) {
	if err := requireRecord(p.ViewID, p.RecordID); err != nil {
		return models.Response{}, err
	}
	if err := requireParam("field name", p.FieldName); err != nil {
		return models.Response{}, err
	}

	return c.do(ctx, models.Request{
		Method: method,
		Path:   recordPath(p.ViewID, p.RecordID) + "/files/" + url.PathEscape(p.FieldName),
		Query: url.Values{
			"viewId":   {p.ViewID},
			"recordId": {p.RecordID},
		},
		File: file,
	})
}
