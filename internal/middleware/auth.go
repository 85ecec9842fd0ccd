package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/stockroom/backend/api/transport"
	"github.com/stockroom/backend/domain"
)

// TokenVerifier validates a raw token against the signing key and the live
// session store.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, rawToken string) (userID, sessionID string, role domain.Role, err error)
}

// JWTAuth authenticates requests from the access_token cookie or a Bearer
// header, then forwards the caller's identity downstream via headers. The
// incoming values of those headers are always discarded.
func JWTAuth(verifier TokenVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del("X-User-ID")
			ctx.Request.Header.Del("X-User-Role")
			ctx.Request.Header.Del("X-Session-ID")

			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, "missing credentials")
				return
			}

			userID, sessionID, role, err := verifier.VerifyToken(ctx, tokenString)
			if err != nil {
				logger.Warn("token rejected", zap.Error(err))
				unauthorized(ctx, "invalid or expired session")
				return
			}

			ctx.Request.Header.Set("X-User-ID", userID)
			ctx.Request.Header.Set("X-User-Role", string(role))
			ctx.Request.Header.Set("X-Session-ID", sessionID)

			next(ctx)
		}
	}
}

// RequireRole gates a route to callers holding the given role. It must run
// after JWTAuth.
func RequireRole(role domain.Role) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			actual := domain.Role(ctx.Request.Header.Peek("X-User-Role"))
			if actual != role {
				forbidden(ctx)
				return
			}
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	if cookie := string(ctx.Request.Header.Cookie("access_token")); cookie != "" {
		return cookie
	}
	header := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	respondError(ctx, fasthttp.StatusUnauthorized, transport.ErrorBody{
		Message: message,
		Code:    string(domain.ErrCodeUnauthenticated),
	})
}

func forbidden(ctx *fasthttp.RequestCtx) {
	respondError(ctx, fasthttp.StatusForbidden, transport.ErrorBody{
		Message: "admin role required",
		Code:    string(domain.ErrCodeForbidden),
	})
}

func respondError(ctx *fasthttp.RequestCtx, status int, body transport.ErrorBody) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	payload, _ := json.Marshal(body)
	ctx.SetBody(payload)
}
