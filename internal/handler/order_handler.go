package handler

import (
	"net/http"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order reads and the admin lifecycle endpoints.
type OrderHandler struct {
	orders    service.OrderService
	lifecycle service.LifecycleService
	validate  *validatorv10.Validate
	logger    zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, lifecycle service.LifecycleService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		lifecycle: lifecycle,
		validate:  newValidator(),
		logger:    logger.With().Str("handler", "order").Logger(),
	}
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, model.ErrOrderNotFound.WithMessage("Invalid order ID format"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// Mine handles GET /api/orders/me.
func (h *OrderHandler) Mine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.orders.ListMine(r.Context(), p)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeSuccess(w, http.StatusOK, envelope{"orders": orders})
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"order": order})
}

// ListAll handles GET /api/admin/orders.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	orders := list.Orders
	if orders == nil {
		orders = []model.Order{}
	}

	writeSuccess(w, http.StatusOK, envelope{"orders": orders, "totalAmount": list.TotalAmount})
}

// UpdateStatus handles PUT /api/admin/orders/{id}.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req, h.validate); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.lifecycle.Transition(r.Context(), id, status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"order": order})
}

// Delete handles DELETE /api/admin/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.lifecycle.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"message": "Order deleted successfully"})
}
