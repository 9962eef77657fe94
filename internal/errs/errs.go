// Package errs defines the error types the relay turns into client responses.
//
// Every failure a caller can observe is an *HTTPError carrying the status
// code and the message to show. Internal detail (upstream bodies, transport
// errors) stays in the logs.
package errs
