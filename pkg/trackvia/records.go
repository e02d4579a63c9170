package trackvia

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/trackvia-go/models"
)

// FindRecords searches a view. An empty Query matches every record; a zero
// Max requests models.DefaultPageSize rows.
func (c *Client) FindRecords(ctx context.Context, p models.FindRecordsParams) (models.Response, error) {
	if err := requireParam("view id", p.ViewID); err != nil {
		return models.Response{}, err
	}

	query := url.Values{
		"viewId": {p.ViewID},
		"q":      {p.Query},
	}
	setPage(query, p.Start, p.Max)

	return c.do(ctx, models.Request{
		Method: http.MethodGet,
		Path:   viewPath(p.ViewID) + "/find",
		Query:  query,
	})
}

// GetAllRecords returns the records of a view from start, at most limit of
// them. A zero limit means models.DefaultPageSize.
func (c *Client) GetAllRecords(ctx context.Context, viewID string, start, limit int) (models.Response, error) {
	return c.FindRecords(ctx, models.FindRecordsParams{
		ViewID: viewID,
		Start:  start,
		Max:    limit,
	})
}

// GetRecord returns a single record of a view.
func (c *Client) GetRecord(ctx context.Context, viewID, recordID string) (models.Response, error) {
	return c.recordCall(ctx, http.MethodGet, viewID, recordID)
}

// DeleteRecord deletes a single record of a view.
func (c *Client) DeleteRecord(ctx context.Context, viewID, recordID string) (models.Response, error) {
	return c.recordCall(ctx, http.MethodDelete, viewID, recordID)
}

// CreateRecord creates a record in a view. data is sent as {"data": data};
// the service accepts a single field map or a list of them.
func (c *Client) CreateRecord(ctx context.Context, viewID string, data any) (models.Response, error) {
	if err := requireParam("view id", viewID); err != nil {
		return models.Response{}, err
	}

	return c.do(ctx, models.Request{
		Method: http.MethodPost,
		Path:   viewPath(viewID) + "/records",
		Query:  url.Values{"viewId": {viewID}},
		JSON:   models.DataEnvelope{Data: data},
	})
}

// UpdateRecord replaces field values of a record. data is sent as
// {"data": data}.
func (c *Client) UpdateRecord(ctx context.Context, viewID, recordID string, data any) (models.Response, error) {
	if err := requireRecord(viewID, recordID); err != nil {
		return models.Response{}, err
	}

	return c.do(ctx, models.Request{
		Method: http.MethodPut,
		Path:   recordPath(viewID, recordID),
		Query:  url.Values{"viewId": {viewID}},
		JSON:   models.DataEnvelope{Data: data},
	})
}

func (c *Client) recordCall(ctx context.Context, method, viewID, recordID string) (models.Response, error) {
	if err := requireRecord(viewID, recordID); err != nil {
		return models.Response{}, err
	}

	return c.do(ctx, models.Request{
		Method: method,
		Path:   recordPath(viewID, recordID),
		Query: url.Values{
			"viewId":   {viewID},
			"recordId": {recordID},
		},
	})
}

func recordPath(viewID, recordID string) string {
	return viewPath(viewID) + "/records/" + url.PathEscape(recordID)
}

func requireRecord(viewID, recordID string) error {
	if err := requireParam("view id", viewID); err != nil {
		return err
	}
	return requireParam("record id", recordID)
}

func setPage(query url.Values, start, limit int) {
	if start < 0 {
		start = 0
	}
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	query.Set("start", strconv.Itoa(start))
	query.Set("max", strconv.Itoa(limit))
}
