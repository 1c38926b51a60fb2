package handler

import (
	"net/http"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests for the calling user.
type CartHandler struct {
	service  service.CartService
	validate *validatorv10.Validate
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: newValidator(),
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

func (h *CartHandler) respond(w http.ResponseWriter, cart *model.Cart, err error) {
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"cart": cart})
}

func (h *CartHandler) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("itemId"))
	if err != nil {
		writeServiceError(w, model.ErrCartItemNotFound, h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	cart, err := h.service.Get(r.Context(), p.ID)
	h.respond(w, cart, err)
}

// Add handles POST /api/cart/add. Quantity defaults to one.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if err := decodeJSON(r, &req, h.validate); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	cart, err := h.service.AddItem(r.Context(), p.ID, req.ProductID, qty)
	h.respond(w, cart, err)
}

// Update handles PUT /api/cart/update/{itemId}.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req model.UpdateCartItemRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), p.ID, id, req.Quantity)
	h.respond(w, cart, err)
}

// Remove handles DELETE /api/cart/remove/{itemId}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), p.ID, id)
	h.respond(w, cart, err)
}

// Clear handles DELETE /api/cart/clear.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	cart, err := h.service.Clear(r.Context(), p.ID)
	h.respond(w, cart, err)
}
