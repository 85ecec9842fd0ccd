package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/api/transport"
	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/httpcontext"
	"github.com/stockroom/backend/pkg/pagination"
	"github.com/stockroom/backend/repository"
	assetUC "github.com/stockroom/backend/usecase/asset"
)

type AssetHandler struct {
	baseHandler
	uc *assetUC.Service
}

func NewAssetHandler(uc *assetUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List assets
// @Tags assets
// @Router /api/v1/assets [get]
func (h *AssetHandler) List(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)
	filter := repository.AssetFilter{
		Status:  domain.AssetStatus(ctx.QueryArgs().Peek("status")),
		OwnerID: string(ctx.QueryArgs().Peek("ownerId")),
		Query:   string(ctx.QueryArgs().Peek("q")),
		Limit:   params.Limit,
		Offset:  params.Offset(),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	assets, total, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(assets, params, total))
}

// @Summary Get asset with recent events
// @Tags assets
// @Router /api/v1/assets/{id} [get]
func (h *AssetHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	asset, events, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if events == nil {
		events = []domain.AssetEvent{}
	}
	h.respondJSON(ctx, http.StatusOK, transport.AssetDetail{Asset: asset, Events: events})
}

// @Summary Create asset
// @Tags assets
// @Router /api/v1/assets [post]
func (h *AssetHandler) Create(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var input assetUC.CreateInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, actor, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Partially update asset
// @Tags assets
// @Router /api/v1/assets/{id} [patch]
func (h *AssetHandler) Update(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var p assetUC.Patch
	if err := json.Unmarshal(ctx.PostBody(), &p); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, actor, pathParam(ctx, "id"), p)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Assign or unassign asset owner
// @Tags assets
// @Router /api/v1/assets/{id}/assign [post]
func (h *AssetHandler) Assign(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var req transport.AssignRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.AssignOwner(stdCtx, actor, pathParam(ctx, "id"), req.OwnerID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Change asset lifecycle status
// @Tags assets
// @Router /api/v1/assets/{id}/status [post]
func (h *AssetHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var req transport.StatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.SetStatus(stdCtx, actor, pathParam(ctx, "id"), req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete asset
// @Tags assets
// @Router /api/v1/assets/{id} [delete]
func (h *AssetHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, actor, pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusNoContent, nil)
}
