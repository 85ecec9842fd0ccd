package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/httpcontext"
	"github.com/stockroom/backend/pkg/pagination"
	"github.com/stockroom/backend/repository"
	eventUC "github.com/stockroom/backend/usecase/event"
)

type EventHandler struct {
	baseHandler
	uc *eventUC.Service
}

func NewEventHandler(uc *eventUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Query the audit stream
// @Tags events
// @Router /api/v1/events [get]
func (h *EventHandler) List(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)
	filter := repository.EventFilter{
		AssetID:   string(ctx.QueryArgs().Peek("assetId")),
		CreatedBy: string(ctx.QueryArgs().Peek("createdBy")),
		Action:    domain.EventAction(ctx.QueryArgs().Peek("action")),
		Query:     string(ctx.QueryArgs().Peek("q")),
		From:      queryTime(ctx, "from"),
		To:        queryTime(ctx, "to"),
		Limit:     params.Limit,
		Offset:    params.Offset(),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, total, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(events, params, total))
}

// @Summary Get a single audit event
// @Tags events
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	event, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, event)
}

// @Summary List events for one asset
// @Tags events
// @Router /api/v1/assets/{id}/events [get]
func (h *EventHandler) ListForAsset(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)
	filter := repository.EventFilter{
		AssetID: pathParam(ctx, "id"),
		Limit:   params.Limit,
		Offset:  params.Offset(),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, total, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(events, params, total))
}

func queryTime(ctx *fasthttp.RequestCtx, name string) time.Time {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
