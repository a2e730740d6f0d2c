package app

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/unrolled/secure"

	"github.com/parksops/ar-api/internal/identity"
	"github.com/parksops/ar-api/internal/observability"
	"github.com/parksops/ar-api/internal/permissions"
	"github.com/parksops/ar-api/internal/platform/httpx"
	"github.com/parksops/ar-api/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
}

// MiddlewareStack installs the outer middleware chain: security headers,
// request ids, rate limits, and request metrics.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	requestIDMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			next.ServeHTTP(w, r.WithContext(shared.ContextWithRequestID(r.Context(), id)))
		})
	}

	stack := []func(http.Handler) http.Handler{
		secureMiddleware.Handler,
		requestIDMiddleware,
	}
	if cfg.Config != nil && cfg.Config.RateLimitRequests > 0 {
		stack = append(stack, httprate.LimitByIP(cfg.Config.RateLimitRequests, cfg.Config.RateLimitWindow))
	}
	if cfg.Metrics != nil {
		stack = append(stack, cfg.Metrics.Middleware)
	}
	return stack
}

// RequireIdentity decodes the bearer token, resolves the caller's permission,
// and stores it in the request context. Anonymous callers are rejected here,
// before any handler or store access runs. Decode failures are logged at
// debug level only; they are routine, not faults.
func RequireIdentity(logger *slog.Logger, decoder *identity.Decoder, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := decoder.Decode(bearerToken(r))
			if err != nil {
				logger.Debug("token decode failed",
					slog.String("requestId", shared.RequestIDFromContext(r.Context())),
					slog.Any("error", err))
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			perm := permissions.Resolve(claims, resource)
			next.ServeHTTP(w, r.WithContext(permissions.NewContext(r.Context(), perm)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
