package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/techy-Nik/final-term/internal/handlers"
	"github.com/techy-Nik/final-term/internal/observability"
)

type ctxKey struct{}

// Middleware rejects requests without a valid, unrevoked Bearer token and
// stores the token's claims in the request context.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				handlers.WriteError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			claims, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				if !isTokenError(err) {
					observability.LoggerWithTrace(r.Context()).Error("authentication failed", zap.Error(err))
					handlers.WriteError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				handlers.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("user.id", claims.UserID))

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Middleware, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ctxKey{}).(*Claims)
	return claims
}

// UserIDFromContext returns the authenticated user's id, or "".
func UserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrRevokedToken)
}
