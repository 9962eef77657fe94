package handler

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/pbi-relay/internal/config"
	"github.com/deppfellow/pbi-relay/internal/errs"
	"github.com/deppfellow/pbi-relay/internal/lib/devops"
	"github.com/deppfellow/pbi-relay/internal/server"
	"github.com/deppfellow/pbi-relay/internal/service"
	"github.com/deppfellow/pbi-relay/internal/validation"
	"github.com/deppfellow/pbi-relay/internal/workitem"
)

// Messages returned to callers.
const (
	MessageCreated         = "PBI created successfully."
	MessageInvalidJSON     = "Invalid JSON format. Detail: "
	MessageRequiredFields  = "The 'Title' and 'Description' fields are required."
	MessageInvalidPriority = "Invalid priority. Must be 'alta', 'media' or 'baja'."
	MessageBodyTooLarge    = "Request body is too large."
	MessageUnreadableBody  = "Could not read request body."
)

const (
	codeInvalidJSON     = "INVALID_JSON"
	codeMissingFields   = "MISSING_REQUIRED_FIELDS"
	codeInvalidPriority = "INVALID_PRIORITY"

	defaultMaxBodyBytes = 1 << 20
)

var errBodyTooLarge = errors.New("request body exceeds limit")

// CreatePBIRequest is the inbound payload. Field names match
// case-insensitively.
type CreatePBIRequest struct {
	Title       string `json:"Title" validate:"notblank"`
	State       string `json:"State"`
	Description string `json:"Description" validate:"notblank"`
	Priority    string `json:"Priority"`
	Effort      int    `json:"Effort"`
}

func (r *CreatePBIRequest) Validate() error {
	return validation.Struct(r)
}

// WorkItemHandler relays product backlog item requests to Azure DevOps.
type WorkItemHandler struct {
	Handler
	service      *service.WorkItemService
	maxBodyBytes int64
}

func NewWorkItemHandler(s *server.Server, svc *service.WorkItemService) *WorkItemHandler {
	maxBodyBytes := s.Config.Server.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	return &WorkItemHandler{
		Handler:      NewHandler(s),
		service:      svc,
		maxBodyBytes: maxBodyBytes,
	}
}

// CreatePBI handles one creation request end to end. It never returns an
// error: every outcome, including failures, is an Output.
func (h *WorkItemHandler) CreatePBI(ctx context.Context, in Input) Output {
	start := time.Now()
	logger := h.logger(ctx).With().Str("operation", "create_pbi").Logger()

	txn := newrelic.FromContext(ctx)
	if txn != nil {
		txn.AddAttribute("handler.name", "CreatePBI")
	}

	created, err := h.createPBI(ctx, &logger, in)
	if err != nil {
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			httpErr = errs.NewInternalServerError()
		}

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.error_code", httpErr.Code)
			if httpErr.Status >= http.StatusInternalServerError {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
		}

		logger.Debug().
			Int("status", httpErr.Status).
			Dur("total_duration", time.Since(start)).
			Msg("request rejected")

		return Output{Status: httpErr.Status, Body: httpErr.Message}
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("workitem.id", created.ID)
	}

	logger.Info().
		Int("workitem_id", created.ID).
		Int("workitem_rev", created.Rev).
		Str("workitem_url", created.URL).
		Dur("total_duration", time.Since(start)).
		Msg("PBI created")

	return Output{Status: http.StatusOK, Body: MessageCreated}
}

// createPBI runs the pipeline and returns an *errs.HTTPError for every
// failure the caller may see.
func (h *WorkItemHandler) createPBI(ctx context.Context, logger *zerolog.Logger, in Input) (*devops.WorkItem, error) {
	// A missing credential is a deployment fault; report it before looking
	// at the payload.
	if !h.service.Configured() {
		logger.Error().
			Str("env_var", config.PATEnvVar).
			Msg("azure devops personal access token is not configured")
		return nil, errs.NewInternalServerError()
	}

	body, err := readBody(in.Body, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			logger.Warn().Int64("max_body_bytes", h.maxBodyBytes).Msg("request body too large")
			return nil, errs.NewPayloadTooLargeError(MessageBodyTooLarge)
		}
		logger.Error().Err(err).Msg("failed to read request body")
		return nil, errs.NewBadRequestError(MessageUnreadableBody, nil, nil)
	}

	logger.Info().Int("body_bytes", len(body)).Msg("create PBI request received")
	logger.Debug().Str("body", string(body)).Msg("request body")

	var req *CreatePBIRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Error().Err(err).Msg("failed to decode request body")
		code := codeInvalidJSON
		return nil, errs.NewBadRequestError(MessageInvalidJSON+err.Error(), &code, nil)
	}

	if req == nil {
		code := codeMissingFields
		return nil, errs.NewBadRequestError(MessageRequiredFields, &code, nil)
	}

	if fieldErrors := validation.Check(req); fieldErrors != nil {
		logger.Warn().Interface("field_errors", fieldErrors).Msg("request validation failed")
		code := codeMissingFields
		return nil, errs.NewBadRequestError(MessageRequiredFields, &code, fieldErrors)
	}

	priority, err := workitem.ParsePriority(req.Priority)
	if err != nil {
		logger.Warn().Str("priority", req.Priority).Msg("invalid priority")
		code := codeInvalidPriority
		return nil, errs.NewBadRequestError(MessageInvalidPriority, &code, nil)
	}

	callStart := time.Now()
	created, err := h.service.Create(ctx, workitem.Fields{
		Title:       req.Title,
		State:       req.State,
		Description: req.Description,
		Priority:    priority,
		Effort:      req.Effort,
	})
	callDuration := time.Since(callStart)

	if err != nil {
		if apiErr, ok := devops.AsAPIError(err); ok {
			logger.Error().
				Int("upstream_status", apiErr.StatusCode).
				Str("upstream_body", apiErr.Body).
				Dur("upstream_duration", callDuration).
				Msg("failed to create PBI in Azure DevOps")
			return nil, errs.NewUpstreamError(apiErr.StatusCode)
		}

		logger.Error().Stack().
			Err(err).
			Bool("timeout", isTimeout(err)).
			Dur("upstream_duration", callDuration).
			Msg("could not reach Azure DevOps")

		if isTimeout(err) {
			return nil, errs.NewGatewayTimeoutError()
		}
		return nil, errs.NewBadGatewayError()
	}

	return created, nil
}

// CreatePBIEcho adapts CreatePBI to an Echo route.
func (h *WorkItemHandler) CreatePBIEcho(c echo.Context) error {
	out := h.CreatePBI(c.Request().Context(), Input{Body: c.Request().Body})
	return respond(c, out)
}

// readBody reads at most limit bytes; one more byte means the body is too
// large.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
