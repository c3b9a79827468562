package middlewares

import (
	"context"
	"net/http"

	"github.com/dmoralesc/recetas-api/internal/logger"
)

// Tokener defines the minimal token interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	Validate(ctx context.Context, tokenString string) error
}

// RevocationChecker reports whether a token has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware returns a middleware that requires a valid, non-revoked
// session token. Unauthenticated requests are redirected to loginURL.
func AuthMiddleware(tokener Tokener, revoked RevocationChecker, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			if err := tokener.Validate(ctx, tokenString); err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(ctx, tokenString)
				if err != nil {
					logger.Log.Errorw("revocation check failed", "err", err)
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				if isRevoked {
					logger.Log.Warnw("revoked token presented")
					http.Redirect(w, r, loginURL, http.StatusSeeOther)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
