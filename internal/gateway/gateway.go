// Package gateway hosts CreatePBI behind an AWS API Gateway HTTP API
// (payload format 2.0) Lambda integration.
package gateway

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deppfellow/pbi-relay/internal/handler"
)

const contentTypeText = "text/plain; charset=UTF-8"

// Adapter translates API Gateway events into handler calls.
type Adapter struct {
	handler *handler.WorkItemHandler
	logger  *zerolog.Logger
}

func NewAdapter(h *handler.WorkItemHandler, logger *zerolog.Logger) *Adapter {
	return &Adapter{
		handler: h,
		logger:  logger,
	}
}

// Handle is the Lambda entry point. Failures are expressed as responses;
// the returned error is always nil so API Gateway never answers 502 on our
// behalf.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	requestID := event.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	logger := a.logger.With().
		Str("request_id", requestID).
		Str("method", event.RequestContext.HTTP.Method).
		Str("path", event.RawPath).
		Str("ip", event.RequestContext.HTTP.SourceIP).
		Logger()
	ctx = logger.WithContext(ctx)

	if !strings.EqualFold(event.RequestContext.HTTP.Method, http.MethodPost) {
		logger.Warn().Msg("method not allowed")
		return response(handler.Output{Status: http.StatusMethodNotAllowed}), nil
	}

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			logger.Error().Err(err).Msg("failed to decode base64 request body")
			return response(handler.Output{
				Status: http.StatusBadRequest,
				Body:   handler.MessageUnreadableBody,
			}), nil
		}
		body = string(decoded)
	}

	out := a.handler.CreatePBI(ctx, handler.Input{Body: strings.NewReader(body)})

	logger.Info().Int("status", out.Status).Msg("API")

	return response(out), nil
}

func response(out handler.Output) events.APIGatewayV2HTTPResponse {
	resp := events.APIGatewayV2HTTPResponse{
		StatusCode: out.Status,
	}
	if out.Body != "" {
		resp.Headers = map[string]string{
			"Content-Type": contentTypeText,
		}
		resp.Body = out.Body
	}
	return resp
}
