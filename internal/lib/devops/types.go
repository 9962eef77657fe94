package devops

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned when the client has no PAT.
var ErrMissingToken = errors.New("azure devops personal access token is not configured")

// WorkItem is the subset of the creation response the relay logs.
type WorkItem struct {
	ID  int    `json:"id"`
	Rev int    `json:"rev"`
	URL string `json:"url"`
}

// APIError is a non-2xx answer from Azure DevOps.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("azure devops API error (%d): %s", e.StatusCode, e.Body)
}

// AsAPIError reports whether err (or any error in its chain) is an
// *APIError and returns it.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
