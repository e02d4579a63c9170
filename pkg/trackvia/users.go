package trackvia

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MKhiriev/trackvia-go/models"
)

// GetUsers lists users of the account. A zero Max requests
// models.DefaultPageSize users.
func (c *Client) GetUsers(ctx context.Context, p models.ListUsersParams) (models.Response, error) {
	query := url.Values{}
	setPage(query, p.Start, p.Max)

	return c.do(ctx, models.Request{
		Method: http.MethodGet,
		Path:   "/openapi/users",
		Query:  query,
	})
}

// CreateUser adds a user to the account. The user attributes travel as query
// parameters, as the service expects.
func (c *Client) CreateUser(ctx context.Context, p models.CreateUserParams) (models.Response, error) {
	if err := requireParam("email", p.Email); err != nil {
		return models.Response{}, err
	}

	return c.do(ctx, models.Request{
		Method: http.MethodPost,
		Path:   "/openapi/users",
		Query: url.Values{
			"email":     {p.Email},
			"firstName": {p.FirstName},
			"lastName":  {p.LastName},
			"timeZone":  {p.TimeZone},
		},
	})
}
