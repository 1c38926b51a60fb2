package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/chandan-mishra846/ecommerce-backend/internal/model"
	"github.com/chandan-mishra846/ecommerce-backend/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler serves catalogue reads and stock management.
type ProductHandler struct {
	products  service.ProductService
	inventory service.InventoryService
	logger    zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products service.ProductService, inventory service.InventoryService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products:  products,
		inventory: inventory,
		logger:    logger.With().Str("handler", "product").Logger(),
	}
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewDomainError(model.KindValidation, model.ErrCodeValidationFailed, "invalid "+name+" parameter")
	}
	return n, nil
}

// GetAll handles GET /api/products requests. ?ids=a,b looks up specific
// products instead of paging the catalogue.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", model.DefaultPageSize)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	q := model.ProductQuery{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("ids"); raw != "" {
		q.IDs = strings.Split(raw, ",")
	}

	products, err := h.products.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	writeSuccess(w, http.StatusOK, envelope{"products": products, "count": len(products)})
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"product": product})
}

// Restock handles POST /api/admin/products/{id}/restock.
func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req model.StockAdjustment
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	product, err := h.inventory.AddStock(r.Context(), p, r.PathValue("id"), req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"product": product})
}

// SetStock handles PUT /api/admin/products/{id}/stock.
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req model.StockAdjustment
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	product, err := h.inventory.SetStock(r.Context(), p, r.PathValue("id"), req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"product": product})
}
