package handler

import (
	"log/slog"
	"net/http"

	"github.com/celosoul/celosoul/internal/catalog"
	"github.com/celosoul/celosoul/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlansHandler serves the static plan catalog.
//
// Route:
//   - GET /api/plans -> List
type PlansHandler struct {
	logger *slog.Logger
}

// NewPlansHandler creates a new PlansHandler.
func NewPlansHandler(logger *slog.Logger) *PlansHandler {
	return &PlansHandler{logger: logger}
}

// RegisterRoutes registers plan routes on the provided mux.
func (h *PlansHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/plans", h.List)
}

type planPayload struct {
	domain.Plan
	DurationLabel string `json:"durationLabel"`
}

var titleCaser = cases.Title(language.English)

// List returns every plan, ordered for display.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()

	payload := make([]planPayload, 0, len(all))
	for _, p := range all {
		payload = append(payload, planPayload{
			Plan:          p,
			DurationLabel: titleCaser.String(string(p.Duration)),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"plans": payload,
	})
}
