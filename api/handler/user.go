package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/api/transport"
	"github.com/stockroom/backend/pkg/httpcontext"
	"github.com/stockroom/backend/pkg/pagination"
	"github.com/stockroom/backend/repository"
	userUC "github.com/stockroom/backend/usecase/user"
)

type UserHandler struct {
	baseHandler
	uc *userUC.Service
}

func NewUserHandler(uc *userUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List users
// @Tags users
// @Router /api/v1/users [get]
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	params := paging(ctx)
	filter := repository.UserFilter{
		Query:  string(ctx.QueryArgs().Peek("q")),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, total, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, pagination.NewPage(users, params, total))
}

// @Summary Get user
// @Tags users
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, user)
}

// @Summary Partially update user profile
// @Tags users
// @Router /api/v1/users/{id} [patch]
func (h *UserHandler) Update(ctx *fasthttp.RequestCtx) {
	var p userUC.Patch
	if err := json.Unmarshal(ctx.PostBody(), &p); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, pathParam(ctx, "id"), p)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Set user role
// @Tags users
// @Router /api/v1/users/{id}/role [post]
func (h *UserHandler) SetRole(ctx *fasthttp.RequestCtx) {
	var req transport.RoleRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.SetRole(stdCtx, pathParam(ctx, "id"), req.Role)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}
