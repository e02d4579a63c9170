package trackvia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MKhiriev/trackvia-go/models"
)

// GetAllApps returns all apps of the logged in account.
func (c *Client) GetAllApps(ctx context.Context) (models.Response, error) {
	return c.do(ctx, models.Request{Method: http.MethodGet, Path: "/openapi/apps"})
}

// GetAllViews returns all views of the logged in account.
func (c *Client) GetAllViews(ctx context.Context) (models.Response, error) {
	return c.do(ctx, models.Request{Method: http.MethodGet, Path: "/openapi/views"})
}

// GetView returns a single view.
func (c *Client) GetView(ctx context.Context, viewID string) (models.Response, error) {
	if err := requireParam("view id", viewID); err != nil {
		return models.Response{}, err
	}

	return c.do(ctx, models.Request{
		Method: http.MethodGet,
		Path:   viewPath(viewID),
		Query:  url.Values{"viewId": {viewID}},
	})
}

func viewPath(viewID string) string {
	return "/openapi/views/" + url.PathEscape(viewID)
}

// requireParam returns ErrMissingParameter naming param when value is empty.
func requireParam(param, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrMissingParameter, param)
	}
	return nil
}
