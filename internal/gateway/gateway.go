package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/models"
)

// Submitter processes one RSVP form
type Submitter interface {
	Submit(ctx context.Context, form models.Form) handler.Result
}

// Handler adapts API Gateway proxy events (REST API and HTTP API payloads) to the RSVP handler
type Handler struct {
	submitter    Submitter
	allowOrigins []string
	log          zerolog.Logger
}

// NewHandler creates a new API Gateway handler
func NewHandler(submitter Submitter, allowOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		submitter:    submitter,
		allowOrigins: allowOrigins,
		log:          logger.With().Str("component", "Gateway").Logger(),
	}
}

// Handle processes one invocation. Invocations without a proxy body are
// decoded as the form itself, so the function can also be invoked directly.
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error) {
	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		h.log.Warn().Err(err).Msg("Failed to parse event")
		return h.respond(req, http.StatusBadRequest, handler.Response{Error: "invalid request body"}), nil
	}

	if httpMethod(req, payload) == http.MethodOptions {
		return h.respond(req, http.StatusOK, handler.Response{}), nil
	}

	form, err := decodeForm(req, payload)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to parse request body")
		return h.respond(req, http.StatusBadRequest, handler.Response{Error: "invalid request body"}), nil
	}

	status, resp := h.submitter.Submit(ctx, form).Response()
	return h.respond(req, status, resp), nil
}

// httpMethod reads the method of a REST API event, falling back to
// requestContext.http.method of an HTTP API (payload v2.0) event
func httpMethod(req events.APIGatewayProxyRequest, payload json.RawMessage) string {
	if req.HTTPMethod != "" {
		return req.HTTPMethod
	}
	var v2 events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(payload, &v2); err != nil {
		return ""
	}
	return v2.RequestContext.HTTP.Method
}

func decodeForm(req events.APIGatewayProxyRequest, payload json.RawMessage) (models.Form, error) {
	var form models.Form
	if req.Body == "" {
		return form, json.Unmarshal(payload, &form)
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return form, err
		}
		body = decoded
	}
	return form, json.Unmarshal(body, &form)
}

func (h *Handler) respond(req events.APIGatewayProxyRequest, status int, resp handler.Response) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(resp)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  h.allowOrigin(req),
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Allow-Methods": "POST,OPTIONS",
			"Content-Type":                 "application/json",
		},
		Body: string(body),
	}
}

func (h *Handler) allowOrigin(req events.APIGatewayProxyRequest) string {
	if len(h.allowOrigins) == 0 || slices.Contains(h.allowOrigins, "*") {
		return "*"
	}
	origin := req.Headers["origin"]
	if origin == "" {
		origin = req.Headers["Origin"]
	}
	if slices.Contains(h.allowOrigins, origin) {
		return origin
	}
	return h.allowOrigins[0]
}
