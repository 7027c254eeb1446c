package handler

import (
	"log/slog"
	"net/http"

	"github.com/celosoul/celosoul/internal/discover"
	"github.com/celosoul/celosoul/internal/middleware"
)

// DiscoverHandler runs the gated discovery actions.
//
// Routes:
//   - GET  /api/discover/next       -> Next
//   - POST /api/discover/swipe      -> Swipe
//   - POST /api/discover/superlike  -> SuperLike
type DiscoverHandler struct {
	coordinator *discover.Coordinator
	chainID     int
	logger      *slog.Logger
}

// NewDiscoverHandler creates a new DiscoverHandler.
func NewDiscoverHandler(coordinator *discover.Coordinator, chainID int, logger *slog.Logger) *DiscoverHandler {
	return &DiscoverHandler{
		coordinator: coordinator,
		chainID:     chainID,
		logger:      logger,
	}
}

// RegisterRoutes registers discovery routes on the provided mux. Payment
// routes take the rate limiter; browsing does not.
func (h *DiscoverHandler) RegisterRoutes(mux *http.ServeMux, limitPayments func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/discover/next", h.Next)
	mux.HandleFunc("POST /api/discover/swipe", h.Swipe)
	mux.Handle("POST /api/discover/superlike", limitPayments(http.HandlerFunc(h.SuperLike)))
}

// Next returns the candidate under the cursor without consuming quota.
func (h *DiscoverHandler) Next(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	candidate, err := h.coordinator.Current(r.Context(), identity)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidate": candidate,
	})
}

type swipeRequest struct {
	Action string `json:"action"`
}

// Swipe consumes one swipe. Exhausted quota comes back as 402 with an
// upgrade message.
func (h *DiscoverHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req swipeRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	action, err := discover.ParseSwipeAction(req.Action)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	res, err := h.coordinator.Swipe(r.Context(), identity, action)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"action":    res.Action,
		"candidate": res.Candidate,
		"next":      res.Next,
		"remaining": map[string]int{
			"swipes": quotaSentinel(res.Remaining, res.Unlimited),
		},
	})
}

// SuperLike runs the paid super-like tip flow. The response always
// carries the terminal payment state; charged reports whether the
// counters moved.
func (h *DiscoverHandler) SuperLike(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	res, err := h.coordinator.SuperLike(r.Context(), identity)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	body := map[string]interface{}{
		"charged":   res.Charged,
		"payment":   newPaymentPayload(res.Payment, h.chainID),
		"candidate": res.Candidate,
	}
	if res.Charged {
		body["next"] = res.Next
		body["usage"] = res.Record
	}

	status := http.StatusOK
	if !res.Charged {
		// The flow ran but the transfer did not confirm
		status = http.StatusPaymentRequired
	}
	respondJSON(w, status, body)
}
