package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/api/transport"
	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/httpcontext"
	"github.com/stockroom/backend/pkg/pagination"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if payload == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// internal details stay in the logs
		h.logger.Error("request failed", zap.Error(err))
		message = "internal server error"
	}
	h.respondJSON(ctx, status, transport.ErrorBody{Message: message, Code: code})
}

func (h baseHandler) respondBadPayload(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorBody{
		Message: "invalid payload",
		Code:    string(domain.ErrCodeValidation),
	})
}

// actorID reads the authenticated user's id set by the auth middleware. An
// empty result means the route was wired without that middleware.
func (h baseHandler) actorID(ctx *fasthttp.RequestCtx) string {
	actor := string(ctx.Request.Header.Peek("X-User-ID"))
	if actor == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.ErrorBody{
			Message: "not authenticated",
			Code:    string(domain.ErrCodeUnauthenticated),
		})
	}
	return actor
}

func mapError(err error) (int, string) {
	code := domain.CodeOf(err)
	switch code {
	case domain.ErrCodeValidation, domain.ErrCodeInvalidOwner:
		return http.StatusBadRequest, string(code)
	case domain.ErrCodeUnauthenticated:
		return http.StatusUnauthorized, string(code)
	case domain.ErrCodeForbidden:
		return http.StatusForbidden, string(code)
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, string(code)
	case domain.ErrCodeConflict:
		return http.StatusConflict, string(code)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

func queryInt(ctx *fasthttp.RequestCtx, name string, fallback int) int {
	if v, err := strconv.Atoi(string(ctx.QueryArgs().Peek(name))); err == nil {
		return v
	}
	return fallback
}

func paging(ctx *fasthttp.RequestCtx) pagination.Params {
	return pagination.Normalize(
		queryInt(ctx, "page", 1),
		queryInt(ctx, "limit", 0),
		pagination.DefaultLimit,
	)
}
