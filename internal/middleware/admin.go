package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/rsvp/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// AdminSubjectKey is the context key for the subject of a verified admin token.
const AdminSubjectKey contextKey = "admin_subject"

// GetAdminSubject extracts the admin token subject from the context.
// Returns empty string if the request carried no token.
func GetAdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(AdminSubjectKey).(string)
	return subject
}

func verify(tokens *auth.TokenManager, header string) (string, error) {
	token, err := auth.BearerToken(header)
	if err != nil {
		return "", err
	}
	claims, err := tokens.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RequireAdmin returns an interceptor that rejects RPCs without a valid admin
// token. A nil manager admits every call. Install it ahead of
// LoggingInterceptor so that logged calls carry the admin subject.
func RequireAdmin(tokens *auth.TokenManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokens == nil {
				return next(ctx, req)
			}
			subject, err := verify(tokens, req.Header().Get("Authorization"))
			if err != nil {
				slog.Warn("Admin token rejected", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(context.WithValue(ctx, AdminSubjectKey, subject), req)
		}
	}
}

// RequireAdminHTTP is the net/http counterpart of RequireAdmin.
func RequireAdminHTTP(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokens == nil {
				next.ServeHTTP(w, r)
				return
			}
			subject, err := verify(tokens, r.Header.Get("Authorization"))
			if err != nil {
				slog.Warn("Admin token rejected", "path", r.URL.Path, "error", err)
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), AdminSubjectKey, subject)))
		})
	}
}
