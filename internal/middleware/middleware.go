// Package middleware holds the Echo middlewares of the HTTP host: request
// ids, request-scoped loggers, New Relic tracing, function key
// authorization and the global error handler.
package middleware
