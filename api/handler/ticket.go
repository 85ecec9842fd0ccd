package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/pkg/httpcontext"
	"github.com/stockroom/backend/pkg/pagination"
	"github.com/stockroom/backend/repository"
	ticketUC "github.com/stockroom/backend/usecase/ticket"
)

type TicketHandler struct {
	baseHandler
	uc *ticketUC.Service
}

func NewTicketHandler(uc *ticketUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List service tickets
// @Tags tickets
// @Router /api/v1/tickets [get]
func (h *TicketHandler) List(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)
	filter := repository.TicketFilter{
		AssetID:  string(ctx.QueryArgs().Peek("assetId")),
		OpenOnly: ctx.QueryArgs().GetBool("open"),
		Limit:    params.Limit,
		Offset:   params.Offset(),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tickets, total, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(tickets, params, total))
}

// @Summary Get service ticket
// @Tags tickets
// @Router /api/v1/tickets/{id} [get]
func (h *TicketHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ticket, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, ticket)
}

// @Summary Open a ticket against an asset
// @Tags tickets
// @Router /api/v1/tickets [post]
func (h *TicketHandler) Open(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var input ticketUC.OpenInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Open(stdCtx, actor, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Close a ticket
// @Tags tickets
// @Router /api/v1/tickets/{id}/close [post]
func (h *TicketHandler) Close(ctx *fasthttp.RequestCtx) {
	var input ticketUC.CloseInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	closed, err := h.uc.Close(stdCtx, pathParam(ctx, "id"), input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, closed)
}
