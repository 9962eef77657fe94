package handler

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/pbi-relay/internal/server"
)

// Handler holds the shared dependencies embedded by concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Input is a host-independent request.
type Input struct {
	Body io.Reader
}

// Output is a host-independent response. An empty Body means the host
// must send no body at all.
type Output struct {
	Status int
	Body   string
}

// logger returns the request-scoped logger stored in ctx by the host, or
// the server logger when there is none.
func (h Handler) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return h.server.Logger
}

// respond writes out through Echo: plain text when there is a body,
// otherwise only the status.
func respond(c echo.Context, out Output) error {
	if out.Body == "" {
		return c.NoContent(out.Status)
	}
	return c.String(out.Status, out.Body)
}
