package handler

import (
	"log/slog"
	"net/http"

	"github.com/celosoul/celosoul/internal/discover"
	"github.com/celosoul/celosoul/internal/domain"
	"github.com/celosoul/celosoul/internal/middleware"
)

var errMissingPlanID = domain.Invalid("handler.purchase", "planId is required")

// SubscriptionHandler runs plan purchases.
//
// Route:
//   - POST /api/subscriptions -> Purchase
type SubscriptionHandler struct {
	coordinator *discover.Coordinator
	chainID     int
	logger      *slog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(coordinator *discover.Coordinator, chainID int, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		coordinator: coordinator,
		chainID:     chainID,
		logger:      logger,
	}
}

// RegisterRoutes registers subscription routes on the provided mux.
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, limitPayments func(http.Handler) http.Handler) {
	mux.Handle("POST /api/subscriptions", limitPayments(http.HandlerFunc(h.Purchase)))
}

type purchaseRequest struct {
	PlanID string `json:"planId"`
}

// Purchase transfers the plan price and grants the subscription on
// confirmed success.
func (h *SubscriptionHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if req.PlanID == "" {
		ErrorResponse(w, r, h.logger, errMissingPlanID)
		return
	}

	res, err := h.coordinator.PurchasePlan(r.Context(), identity, req.PlanID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	body := map[string]interface{}{
		"granted": res.Granted,
		"plan":    res.Plan,
		"payment": newPaymentPayload(res.Payment, h.chainID),
	}
	if res.Granted {
		body["usage"] = res.Record
	}

	status := http.StatusOK
	if !res.Granted {
		status = http.StatusPaymentRequired
	}
	respondJSON(w, status, body)
}
