// Package rest provides HTTP handlers for cart operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/gocart/internal/cart"
	"github.com/abgdnv/gocart/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  cart.CartService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the cart API with the provided service.
func NewHandler(service cart.CartService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the cart service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)

		r.Route("/items/{id}", func(r chi.Router) {
			r.Post("/", h.AddProduct)
			r.Delete("/", h.RemoveProduct)
			r.Put("/", h.UpdateProductAmount)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// GetCart returns the current cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	items := h.service.Cart(r.Context())
	mLogger.DebugContext(r.Context(), "Successfully retrieved cart", "items", len(items))
	web.RespondJSON(w, mLogger, http.StatusOK, items)
}

// AddProduct increases the quantity of the product in the cart by 1.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to add product to cart", "ID", id)
	items, err := h.service.AddProduct(r.Context(), id)
	if err != nil {
		h.respondOperationError(w, r, mLogger, id, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product added to cart", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, items)
}

// RemoveProduct removes the whole product line from the cart.
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to remove product from cart", "ID", id)
	items, err := h.service.RemoveProduct(r.Context(), id)
	if err != nil {
		h.respondOperationError(w, r, mLogger, id, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product removed from cart", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, items)
}

// amountUpdateDto represents the request body for setting a line amount.
type amountUpdateDto struct {
	Amount int32 `json:"amount" validate:"required,min=1"`
}

// UpdateProductAmount sets the line amount for the product.
func (h *Handler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto amountUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to update product amount", "ID", id, "amount", dto.Amount)
	items, err := h.service.UpdateProductAmount(r.Context(), id, dto.Amount)
	if err != nil {
		h.respondOperationError(w, r, mLogger, id, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product amount updated", "ID", id, "amount", dto.Amount)
	web.RespondJSON(w, mLogger, http.StatusOK, items)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondOperationError maps cart operation errors to HTTP statuses.
func (h *Handler) respondOperationError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, id int64, err error) {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found in cart", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found in cart", id))
	case errors.Is(err, cart.ErrInvalidAmount):
		mLogger.WarnContext(r.Context(), "Invalid amount requested", "ID", id)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Requested amount must be at least 1")
	case errors.Is(err, cart.ErrOutOfStock):
		mLogger.WarnContext(r.Context(), "Requested amount is out of stock", "ID", id)
		web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("Requested amount for product %d is out of stock", id))
	default:
		mLogger.ErrorContext(r.Context(), "Cart operation failed", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Cart operation failed, please retry")
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
