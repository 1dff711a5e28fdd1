package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	apphttp "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/http"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/auth"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the analysis service on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/analyses", apphttp.HandleError(h.createAnalysis))
	r.Get("/analyses", apphttp.HandleError(h.listAnalyses))
	r.Get("/analyses/{id}", apphttp.HandleError(h.getAnalysis))
	r.Post("/analyses/{id}/process", apphttp.HandleError(h.processAnalysis))
}

type createAnalysisRequest struct {
	Category string          `json:"category"`
	Params   analysis.Params `json:"params"`
}

type analysisResponse struct {
	ID          string           `json:"id"`
	Category    string           `json:"category"`
	Params      analysis.Params  `json:"params"`
	Price       string           `json:"price"`
	Status      string           `json:"status"`
	PaymentID   string           `json:"payment_id,omitempty"`
	Result      *analysis.Result `json:"result,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

type createAnalysisResponse struct {
	Analysis    *analysisResponse `json:"analysis"`
	CheckoutURL string            `json:"checkout_url"`
}

type listAnalysesResponse struct {
	Items []*analysisResponse `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

func toAnalysisResponse(anl *analysis.Analysis) *analysisResponse {
	return &analysisResponse{
		ID:          anl.ID,
		Category:    string(anl.Category),
		Params:      anl.Params,
		Price:       anl.Price.String(),
		Status:      string(anl.Status),
		PaymentID:   anl.PaymentID,
		Result:      anl.Result,
		CreatedAt:   anl.CreatedAt,
		CompletedAt: anl.CompletedAt,
	}
}

func (h *HTTP) createAnalysis(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var req createAnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}

	result, err := h.service.CreateAnalysisRequest(r.Context(), userID, analysis.Category(req.Category), req.Params)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusCreated, &createAnalysisResponse{
		Analysis:    toAnalysisResponse(result.Analysis),
		CheckoutURL: result.CheckoutURL,
	})
	return nil
}

func (h *HTTP) getAnalysis(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	anl, err := h.service.GetAnalysis(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, toAnalysisResponse(anl))
	return nil
}

func (h *HTTP) listAnalyses(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.service.ListUserAnalyses(r.Context(), userID, page, limit)
	if err != nil {
		return err
	}

	items := make([]*analysisResponse, len(result.Items))
	for i, anl := range result.Items {
		items[i] = toAnalysisResponse(anl)
	}

	h.writeJSON(w, http.StatusOK, &listAnalysesResponse{
		Items: items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
	return nil
}

func (h *HTTP) processAnalysis(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	anl, err := h.service.ProcessAnalysis(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, toAnalysisResponse(anl))
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
