package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/api/responses"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
	"github.com/adiwijaya/larisin-backend/pkg/logger"
)

const (
	userIDHeader  = "X-User-Id"
	adminIDHeader = "X-Admin-Id"
)

// RequireUser resolves the shopper identity from the X-User-Id header.
// Identity is trusted from the gateway in front of this service.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(userIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "X-User-Id header required"))
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "X-User-Id must be a uuid"))
				return
			}

			ctx := WithUserID(r.Context(), raw)
			if logg != nil {
				ctx = logg.WithUserID(ctx, raw)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin resolves the admin identity from the X-Admin-Id header.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(adminIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "X-Admin-Id header required"))
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "X-Admin-Id must be a uuid"))
				return
			}

			ctx := WithAdminID(r.Context(), raw)
			if logg != nil {
				ctx = logg.WithField(ctx, "admin_id", raw)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
