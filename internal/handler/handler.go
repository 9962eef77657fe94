// Package handler is the first layer after the router.
//
// It reads and validates requests, calls the service layer and maps the
// outcome to a response. The work item handler is host-agnostic: it takes
// an Input and returns an Output, and the Echo and Lambda hosts adapt
// their own request types to it.
package handler
