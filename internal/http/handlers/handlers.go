package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/http/response"
	"github.com/spacenow-app/spacenow/internal/identity"
	"github.com/spacenow-app/spacenow/internal/images"
	"github.com/spacenow-app/spacenow/internal/store"
	"github.com/spacenow-app/spacenow/pkg/auth"
	"github.com/spacenow-app/spacenow/pkg/config"
	"github.com/spacenow-app/spacenow/pkg/events"
	"github.com/spacenow-app/spacenow/pkg/logger"
)

type claimsKey struct{}

// Handlers is the thin delivery layer over the stores. It owns no business
// logic: requests are decoded, store operations invoked, and store state and
// last-error text encoded back out.
type Handlers struct {
	spaces       *store.Spaces
	reservations *store.Reservations
	identity     *identity.Service
	tokens       *auth.TokenMaker
	bus          events.EventBus
	imageStorage images.Storage
	imageCache   *images.Cache
	config       *config.Config
}

func New(
	spaces *store.Spaces,
	reservations *store.Reservations,
	identitySvc *identity.Service,
	tokens *auth.TokenMaker,
	bus events.EventBus,
	imageStorage images.Storage,
	imageCache *images.Cache,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		spaces:       spaces,
		reservations: reservations,
		identity:     identitySvc,
		tokens:       tokens,
		bus:          bus,
		imageStorage: imageStorage,
		imageCache:   imageCache,
		config:       cfg,
	}
}

// RequireJWT authenticates the bearer token and enforces a role. Admins pass
// every role gate.
func (h *Handlers) RequireJWT(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := h.tokens.Parse(token)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole && claims.Role != domain.RoleAdmin {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
			ctx = context.WithValue(ctx, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// session reconstructs the caller's session from the verified token claims.
// The token is the cached session state: authenticated flag plus role.
func (h *Handlers) session(r *http.Request) *store.Session {
	sess := store.NewSession(h.identity, h.identity, h.bus)
	if claims := getClaims(r); claims != nil {
		sess.Restore(claims.Sub, claims.Role)
	}
	return sess
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
