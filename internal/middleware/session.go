package middleware

import (
	"context"
	"net/http"

	"lezat-lumer/internal/auth"
	"lezat-lumer/internal/logger"

	"go.uber.org/zap"
)

type newSessionKey struct{}

// isNewSession reports whether the session in ctx was issued for this request.
func isNewSession(ctx context.Context) bool {
	v, _ := ctx.Value(newSessionKey{}).(bool)
	return v
}

// SessionMiddleware resolves the browser session from the session token and
// issues a new session when the token is missing, expired or forged. The session
// id is stored in the request context.
func SessionMiddleware(sessions *auth.Sessions, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := auth.ExtractToken(r); token != "" {
				claims, err := sessions.Parse(token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(logger.WithSessionID(ctx, claims.SessionID)))
					return
				}
				logger.FromCtx(ctx).Debug("session token rejected", zap.Error(err))
			}

			id, token, err := sessions.New()
			if err != nil {
				logger.FromCtx(ctx).Error("failed to issue session token", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     auth.CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(sessions.TTL().Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(auth.HeaderName, token)

			ctx = context.WithValue(logger.WithSessionID(ctx, id), newSessionKey{}, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
