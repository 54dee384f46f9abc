package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/itinerary-api/internal/middleware"
)

type identityKey struct{}

// Identity is the caller resolved from a valid session token.
type Identity struct {
	UserID string
	Email  string
}

// IdentityFrom returns the identity attached by Middleware, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// UserID returns the caller's id or "" for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := IdentityFrom(ctx)
	return id.UserID
}

// RequireUser returns the caller's id or a 401 error.
func RequireUser(ctx context.Context) (string, error) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return id.UserID, nil
}

// WithIdentity attaches an identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// credential returns the token from the Authorization header or, failing
// that, the session cookie.
func credential(ctx huma.Context) (token string, fromCookie bool) {
	if header := ctx.Header("Authorization"); header != "" {
		if bearer, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(bearer), false
		}
		return "", false
	}
	req := http.Request{Header: http.Header{"Cookie": {ctx.Header("Cookie")}}}
	if cookie, err := req.Cookie(CookieName); err == nil {
		return cookie.Value, true
	}
	return "", false
}

// Middleware resolves the session token once per request. Anonymous requests
// pass through; operations that need a caller use RequireUser. An invalid or
// expired token is rejected with 401. Tokens past half their lifetime are
// renewed through the X-Auth-Token header and, for cookie sessions, a new
// cookie.
func (h *AuthHandler) Middleware(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, fromCookie := credential(ctx)
		if token == "" {
			if ctx.Header("Authorization") != "" {
				huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized: malformed authorization header")
				return
			}
			next(ctx)
			return
		}

		claims, err := h.ParseToken(token)
		if err != nil {
			slog.Debug("rejected token", slog.String("error", err.Error()))
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized: invalid token")
			return
		}

		if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < h.tokenTTL()/2 {
			if renewed, err := h.GenerateToken(claims.UserID, claims.Email); err == nil {
				ctx.SetHeader(RefreshHeader, renewed)
				if fromCookie {
					cookie := h.sessionCookie(renewed)
					ctx.AppendHeader("Set-Cookie", cookie.String())
				}
			}
		}

		middleware.AnnotateUser(ctx.Context(), claims.UserID)
		next(huma.WithValue(ctx, identityKey{}, Identity{UserID: claims.UserID, Email: claims.Email}))
	}
}
