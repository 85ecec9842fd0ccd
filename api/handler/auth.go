package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/api/transport"
	"github.com/stockroom/backend/pkg/httpcontext"
	authUC "github.com/stockroom/backend/usecase/auth"
)

// AccessTokenCookie is the cookie carrying the session token for browser
// clients. API clients may send the same token as a Bearer header instead.
const AccessTokenCookie = "access_token"

type AuthHandler struct {
	baseHandler
	uc       *authUC.Service
	tokenTTL time.Duration
}

func NewAuthHandler(uc *authUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		tokenTTL:    tokenTTL,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var input authUC.RegisterInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, token, err := h.uc.Register(stdCtx, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setTokenCookie(ctx, token)
	h.respondJSON(ctx, http.StatusCreated, transport.AuthResponse{User: user, Token: token})
}

// @Summary Log in
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var creds authUC.Credentials
	if err := json.Unmarshal(ctx.PostBody(), &creds); err != nil {
		h.respondBadPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, token, err := h.uc.Login(stdCtx, creds)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setTokenCookie(ctx, token)
	h.respondJSON(ctx, http.StatusOK, transport.AuthResponse{User: user, Token: token})
}

// @Summary Log out and revoke the session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Peek("X-Session-ID"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, sessionID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.clearTokenCookie(ctx)
	h.respondJSON(ctx, http.StatusNoContent, nil)
}

// @Summary Current user profile
// @Tags auth
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Me(stdCtx, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, user)
}

func (h *AuthHandler) setTokenCookie(ctx *fasthttp.RequestCtx, token string) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(AccessTokenCookie)
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(time.Now().Add(h.tokenTTL))
	ctx.Response.Header.SetCookie(cookie)
}

func (h *AuthHandler) clearTokenCookie(ctx *fasthttp.RequestCtx) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(AccessTokenCookie)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(cookie)
}
