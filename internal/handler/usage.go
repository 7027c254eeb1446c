package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/celosoul/celosoul/internal/discover"
	"github.com/celosoul/celosoul/internal/domain"
	"github.com/celosoul/celosoul/internal/middleware"
)

// UsageHandler serves the caller's entitlement position.
//
// Route:
//   - GET /api/usage -> Show
type UsageHandler struct {
	coordinator *discover.Coordinator
	logger      *slog.Logger
	now         func() time.Time
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(coordinator *discover.Coordinator, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		coordinator: coordinator,
		logger:      logger,
		now:         time.Now,
	}
}

// RegisterRoutes registers usage routes on the provided mux.
func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/usage", h.Show)
}

// quotaSentinel folds (n, unlimited) into the wire convention: -1 means
// unlimited. The sentinel exists only at this boundary.
func quotaSentinel(n int, unlimited bool) int {
	if unlimited {
		return -1
	}
	return n
}

type usagePayload struct {
	Identity  string                    `json:"identity"`
	Usage     *domain.EntitlementRecord `json:"usage"`
	Remaining struct {
		Swipes     int `json:"swipes"`
		SuperLikes int `json:"superLikes"`
	} `json:"remaining"`
	HasActiveSubscription bool `json:"hasActiveSubscription"`
}

// Show returns the identity's record, quota headroom, and subscription
// state.
func (h *UsageHandler) Show(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	u := h.coordinator.Usage(r.Context(), identity)

	var payload usagePayload
	payload.Identity = identity
	payload.Usage = u.Record
	payload.Remaining.Swipes = quotaSentinel(u.SwipesRemaining, u.SwipesUnlimited)
	payload.Remaining.SuperLikes = quotaSentinel(u.SuperLikesRemaining, u.SuperLikesUnlimited)
	payload.HasActiveSubscription = u.Record.ActiveSubscription(h.now()) != nil

	respondJSON(w, http.StatusOK, payload)
}
