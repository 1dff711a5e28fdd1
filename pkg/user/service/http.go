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
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/user"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterPublicRoutes registers the unauthenticated sign-up endpoint.
func RegisterPublicRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/users", apphttp.HandleError(h.register))
}

// RegisterRoutes registers the authenticated user endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Get("/users/me", apphttp.HandleError(h.me))
	r.Post("/users/{id}/wallet", apphttp.HandleError(h.bindWallet))
}

type registerRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	WalletID  string    `json:"wallet_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	User  *userResponse `json:"user"`
	Token string        `json:"token"`
}

func toUserResponse(usr *user.User) *userResponse {
	return &userResponse{
		ID:        usr.ID,
		Email:     usr.Email,
		WalletID:  usr.WalletID,
		CreatedAt: usr.CreatedAt,
	}
}

func (h *HTTP) register(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var req registerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}

	resp, err := h.service.Register(r.Context(), req.Email)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusCreated, &registerResponse{
		User:  toUserResponse(resp.User),
		Token: resp.Token,
	})
	return nil
}

func (h *HTTP) me(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	usr, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(usr))
	return nil
}

func (h *HTTP) bindWallet(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	if chi.URLParam(r, "id") != userID {
		return apperrors.ForbiddenError(nil, "cannot bind a wallet for another user")
	}

	usr, err := h.service.BindWallet(r.Context(), userID)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(usr))
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
