package revenue

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	apphttp "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/http"
)

// DashboardStore is the read-side interface backing the revenue endpoints.
// Per-payment distribution reads go through the payment status endpoint,
// which scopes them to the paying user.
type DashboardStore interface {
	DashboardSummary(ctx context.Context) ([]*CategorySummary, error)
}

// HTTP wraps the dashboard store to provide HTTP endpoints
type HTTP struct {
	store  DashboardStore
	logger *zap.Logger
}

// RegisterRoutes registers the revenue reporting endpoints on the given chi router
func RegisterRoutes(r chi.Router, store DashboardStore, logger *zap.Logger) {
	h := &HTTP{
		store:  store,
		logger: logger,
	}

	r.Get("/revenue/dashboard", apphttp.HandleError(h.dashboard))
}

type categorySummaryResponse struct {
	Category       string `json:"category"`
	Count          int    `json:"count"`
	TotalAmount    string `json:"total_amount"`
	CompletedCount int    `json:"completed_count"`
	FailedCount    int    `json:"failed_count"`
	PendingCount   int    `json:"pending_count"`
}

func (h *HTTP) dashboard(w http.ResponseWriter, r *http.Request) error {
	summaries, err := h.store.DashboardSummary(r.Context())
	if err != nil {
		return apperrors.GeneralError(err)
	}

	resp := make([]*categorySummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, &categorySummaryResponse{
			Category:       s.Category,
			Count:          s.Count,
			TotalAmount:    s.TotalAmount.String(),
			CompletedCount: s.CompletedCount,
			FailedCount:    s.FailedCount,
			PendingCount:   s.PendingCount,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"categories": resp})
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
