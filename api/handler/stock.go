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
	stockUC "github.com/stockroom/backend/usecase/stock"
)

type StockHandler struct {
	baseHandler
	uc *stockUC.Service
}

func NewStockHandler(uc *stockUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List catalog products
// @Tags products
// @Router /api/v1/products [get]
func (h *StockHandler) ListProducts(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)
	filter := repository.ProductFilter{
		Kind:   domain.ProductKind(ctx.QueryArgs().Peek("kind")),
		Query:  string(ctx.QueryArgs().Peek("q")),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	products, total, err := h.uc.ListProducts(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(products, params, total))
}

// @Summary Get product
// @Tags products
// @Router /api/v1/products/{id} [get]
func (h *StockHandler) GetProduct(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := h.uc.GetProduct(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, product)
}

// @Summary Create catalog product
// @Tags products
// @Router /api/v1/products [post]
func (h *StockHandler) CreateProduct(ctx *fasthttp.RequestCtx) {
	var input stockUC.ProductInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateProduct(stdCtx, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary List consumable stock levels
// @Tags stock
// @Router /api/v1/stock [get]
func (h *StockHandler) ListStock(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)
	filter := repository.StockFilter{
		ProductID: string(ctx.QueryArgs().Peek("productId")),
		Limit:     params.Limit,
		Offset:    params.Offset(),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stock, total, err := h.uc.ListStock(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(stock, params, total))
}

// @Summary Apply a stock movement
// @Tags stock
// @Router /api/v1/stock/{productId}/movements [post]
func (h *StockHandler) Move(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var input stockUC.MoveInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stock, movement, err := h.uc.Move(stdCtx, actor, pathParam(ctx, "productId"), input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.MovementResult{Stock: stock, Movement: movement})
}

// @Summary List stock movements for a product
// @Tags stock
// @Router /api/v1/stock/{productId}/movements [get]
func (h *StockHandler) ListMovements(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	movements, total, err := h.uc.ListMovements(stdCtx, pathParam(ctx, "productId"), params.Limit, params.Offset())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(movements, params, total))
}
