package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bulletin/internal/platform/middleware"
	"bulletin/internal/transport/http/shared"
	id "bulletin/pkg/domain"
	dErrors "bulletin/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/subscription_mocks.go -package=mocks Service

// Service defines the interface for the confirmation workflow.
type Service interface {
	Register(ctx context.Context, email, name string) (id.SubscriberID, error)
	Confirm(ctx context.Context, token string) error
}

// Handler handles the subscription endpoints.
type Handler struct {
	logger        *slog.Logger
	subscriptions Service
}

// New creates a subscription Handler.
func New(subscriptions Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:        logger,
		subscriptions: subscriptions,
	}
}

// Register registers the subscription routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	sub := chi.NewRouter()
	sub.Use(middleware.Recovery(h.logger))
	sub.Use(middleware.RequestID)
	sub.Use(middleware.Logger(h.logger))
	sub.Use(middleware.Timeout(30 * time.Second))
	sub.Post("/", h.handleSubscribe)
	sub.Get("/confirm", h.handleConfirm)

	r.Mount("/subscription", sub)
}

// handleSubscribe accepts a form-encoded registration. Missing form fields are
// a parse failure (422); present-but-invalid values are a validation failure
// (400); store or delivery trouble is a server fault (500).
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "malformed subscription form",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteJSON(w, http.StatusUnprocessableEntity, shared.ErrorResponse{
			Code:    "unprocessable_entity",
			Message: "malformed form body",
		})
		return
	}
	if !r.PostForm.Has("email") || !r.PostForm.Has("username") {
		shared.WriteJSON(w, http.StatusUnprocessableEntity, shared.ErrorResponse{
			Code:    "unprocessable_entity",
			Message: "email and username form fields are required",
		})
		return
	}

	email := r.PostForm.Get("email")
	username := r.PostForm.Get("username")

	subscriberID, err := h.subscriptions.Register(ctx, email, username)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "invalid subscription request",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register subscriber",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "subscription accepted",
		"request_id", requestID,
		"subscriber_id", subscriberID.String(),
	)
	w.WriteHeader(http.StatusOK)
}

// handleConfirm resolves the token from the confirmation link. A missing or
// unknown token is the client's fault, never a server error.
func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "token query parameter is required"))
		return
	}

	if err := h.subscriptions.Confirm(ctx, token); err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.WarnContext(ctx, "unknown confirmation token",
				"request_id", requestID,
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to confirm subscriber",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
