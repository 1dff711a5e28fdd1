package service

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	apphttp "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/http"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/auth"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the authenticated payment endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Get("/payments/{id}", apphttp.HandleError(h.getStatus))
	r.Post("/payments/{id}/complete", apphttp.HandleError(h.complete))
}

// RegisterWebhookRoutes registers the unauthenticated gateway callback.
// Mounted outside the auth middleware; the HMAC signature is the auth.
func RegisterWebhookRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/payments/webhook", apphttp.HandleError(h.webhook))
}

// paymentResponse is the wire shape for a payment.
type paymentResponse struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	TxHash      *string    `json:"tx_hash,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toPaymentResponse(pmt *payment.Payment) *paymentResponse {
	return &paymentResponse{
		ID:          pmt.ID,
		Category:    pmt.Category,
		Amount:      pmt.Amount.String(),
		Currency:    pmt.Currency,
		Status:      string(pmt.Status),
		TxHash:      pmt.TxHash,
		CreatedAt:   pmt.CreatedAt,
		CompletedAt: pmt.CompletedAt,
	}
}

// distributionResponse is the wire shape for one payout row on a payment.
type distributionResponse struct {
	ID          string  `json:"id"`
	Wallet      string  `json:"wallet"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	TransferRef *string `json:"transfer_ref,omitempty"`
}

// linkedAnalysisResponse is the slim view of the analysis a payment unlocks.
type linkedAnalysisResponse struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// paymentDetailsResponse is the wire shape for a payment status read.
type paymentDetailsResponse struct {
	*paymentResponse
	Distributions []*distributionResponse `json:"distributions"`
	Analysis      *linkedAnalysisResponse `json:"analysis,omitempty"`
}

func toPaymentDetailsResponse(details *PaymentDetails) *paymentDetailsResponse {
	resp := &paymentDetailsResponse{
		paymentResponse: toPaymentResponse(details.Payment),
		Distributions:   make([]*distributionResponse, 0, len(details.Distributions)),
	}

	for _, dist := range details.Distributions {
		resp.Distributions = append(resp.Distributions, &distributionResponse{
			ID:          dist.ID,
			Wallet:      dist.Wallet,
			Amount:      dist.Amount.String(),
			Category:    dist.Category,
			Status:      string(dist.Status),
			TransferRef: dist.TransferRef,
		})
	}

	if details.Analysis != nil {
		resp.Analysis = &linkedAnalysisResponse{
			ID:       details.Analysis.ID,
			Category: string(details.Analysis.Category),
			Status:   string(details.Analysis.Status),
		}
	}

	return resp
}

func (h *HTTP) getStatus(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	details, err := h.service.GetPaymentStatus(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, toPaymentDetailsResponse(details))
	return nil
}

func (h *HTTP) complete(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	details, err := h.service.CompletePayment(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, toPaymentDetailsResponse(details))
	return nil
}

func (h *HTTP) webhook(w http.ResponseWriter, r *http.Request) error {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	signature := r.Header.Get("x-nowpayments-sig")

	if err := h.service.ReconcileWebhook(r.Context(), payload, signature); err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
