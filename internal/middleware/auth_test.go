package middleware

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/stockroom/backend/api/transport"
	"github.com/stockroom/backend/domain"
)

type stubVerifier struct {
	userID    string
	sessionID string
	role      domain.Role
	err       error
}

func (v *stubVerifier) VerifyToken(context.Context, string) (string, string, domain.Role, error) {
	if v.err != nil {
		return "", "", "", v.err
	}
	return v.userID, v.sessionID, v.role, nil
}

func TestJWTAuthForwardsIdentity(t *testing.T) {
	verifier := &stubVerifier{userID: "user-1", sessionID: "sess-1", role: domain.RoleAdmin}

	var captured *fasthttp.RequestCtx
	handler := JWTAuth(verifier, nil)(func(ctx *fasthttp.RequestCtx) {
		captured = ctx
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Authorization", "Bearer some-token")
	handler(ctx)

	require.NotNil(t, captured)
	require.Equal(t, "user-1", string(captured.Request.Header.Peek("X-User-ID")))
	require.Equal(t, "ADMIN", string(captured.Request.Header.Peek("X-User-Role")))
	require.Equal(t, "sess-1", string(captured.Request.Header.Peek("X-Session-ID")))
}

func TestJWTAuthReadsCookie(t *testing.T) {
	verifier := &stubVerifier{userID: "user-1", sessionID: "sess-1", role: domain.RoleUser}

	called := false
	handler := JWTAuth(verifier, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetCookie("access_token", "cookie-token")
	handler(ctx)

	require.True(t, called)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	handler := JWTAuth(&stubVerifier{}, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("next handler must not run")
	})

	ctx := &fasthttp.RequestCtx{}
	handler(ctx)

	require.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	var body transport.ErrorBody
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	require.Equal(t, string(domain.ErrCodeUnauthenticated), body.Code)
}

func TestJWTAuthRejectsInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrUnauthenticated}

	handler := JWTAuth(verifier, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("next handler must not run")
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Authorization", "Bearer bad-token")
	handler(ctx)

	require.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthStripsSpoofedHeaders(t *testing.T) {
	handler := JWTAuth(&stubVerifier{}, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("next handler must not run")
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-ID", "spoofed")
	ctx.Request.Header.Set("X-User-Role", "ADMIN")
	handler(ctx)

	require.Empty(t, string(ctx.Request.Header.Peek("X-User-ID")))
	require.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
		wantNext   bool
	}{
		{"admin allowed", "ADMIN", fasthttp.StatusOK, true},
		{"user forbidden", "USER", fasthttp.StatusForbidden, false},
		{"missing role forbidden", "", fasthttp.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireRole(domain.RoleAdmin)(func(ctx *fasthttp.RequestCtx) {
				called = true
			})

			ctx := &fasthttp.RequestCtx{}
			if tt.role != "" {
				ctx.Request.Header.Set("X-User-Role", tt.role)
			}
			handler(ctx)

			require.Equal(t, tt.wantNext, called)
			if !tt.wantNext {
				require.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			}
		})
	}
}
