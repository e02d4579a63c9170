package models

// AccountContext identifies the TrackVia account the session operates on.
// It is resolved once after login and stays fixed for the client's lifetime.
type AccountContext struct {
	// AccountID is the id of the first account of the authenticated user.
	AccountID string
}

// Account is one entry of the "accounts" list returned by GET /users.
type Account struct {
	ID   AccountID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// UsersResponse is the subset of the GET /users payload the session needs.
type UsersResponse struct {
	Accounts []Account `json:"accounts"`
}

// ListUsersParams selects a page of users for GET /openapi/users.
type ListUsersParams struct {
	// Start is the zero-based offset of the first user.
	Start int
	// Max is the page size. Zero means [DefaultPageSize].
	Max int
}

// CreateUserParams describes a user to create with POST /openapi/users.
// All fields are required by the service.
type CreateUserParams struct {
	Email     string
	FirstName string
	LastName  string
	// TimeZone is an IANA zone name such as "America/Denver".
	TimeZone string
}
