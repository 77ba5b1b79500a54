package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lapakgo/lapak/internal/domain"
	"github.com/lapakgo/lapak/internal/middleware"
	"github.com/lapakgo/lapak/internal/notify"
	"github.com/lapakgo/lapak/internal/repository"
	"github.com/lapakgo/lapak/internal/router"
)

// OrderHandler exposes order placement and the merchant order surface.
type OrderHandler struct {
	orders   domain.OrderService
	stores   domain.StoreDirectory
	validate *validator.Validate
	logger   *slog.Logger
}

func NewOrderHandler(orders domain.OrderService, stores domain.StoreDirectory, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{
		orders:   orders,
		stores:   stores,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// RegisterRoutes wires the order endpoints. Checkout is public; the
// merchant surface requires an owner identity.
func (h *OrderHandler) RegisterRoutes(r *router.Router) {
	r.Post("/api/stores/{slug}/orders", h.CreateOrder)

	merchant := r.Group(middleware.WithOwner)
	merchant.Get("/api/orders", h.ListOrders)
	merchant.Get("/api/orders/{id}", h.GetOrder)
	merchant.Patch("/api/orders/{id}/status", h.UpdateOrderStatus)
}

type createOrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string             `json:"customer_phone" validate:"required,max=32"`
	CustomerAddress string             `json:"customer_address" validate:"max=500"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
	VariantID string `json:"variant_id" validate:"omitempty,uuid4"`
}

type createOrderResponse struct {
	Order        *domain.Order `json:"order"`
	Message      string        `json:"message"`
	WhatsAppLink string        `json:"whatsapp_link,omitempty"`
}

// CreateOrder handles POST /api/stores/{slug}/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.stores.GetStoreBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			ErrorResponse(w, r, domain.NotFound("order.create", "store", r.PathValue("slug")))
			return
		}
		ErrorResponse(w, r, err)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, domain.Invalid("order.create", "malformed request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		ValidationErrorResponse(w, r, domain.Invalid("order.create", "invalid order request"), fieldErrors(err))
		return
	}

	params := domain.CreateOrderParams{
		StoreID:         store.ID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
	}
	for _, item := range req.Items {
		productID, err := repository.ParseUUID(item.ProductID)
		if err != nil {
			ErrorResponse(w, r, domain.Invalid("order.create", "invalid product id"))
			return
		}
		next := domain.NewOrderItem{ProductID: productID, Quantity: item.Quantity}
		if item.VariantID != "" {
			variantID, err := repository.ParseUUID(item.VariantID)
			if err != nil {
				ErrorResponse(w, r, domain.Invalid("order.create", "invalid variant id"))
				return
			}
			next.VariantID = variantID
		}
		params.Items = append(params.Items, next)
	}

	order, err := h.orders.CreateOrder(ctx, params)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	resp := createOrderResponse{
		Order:   order,
		Message: notify.OrderMessage(order),
	}
	if store.ContactNumber != "" {
		resp.WhatsAppLink = notify.WhatsAppLink(store, order)
	}

	respondJSON(w, http.StatusCreated, resp)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.GetOwnerID(ctx)
	if !ok {
		ErrorResponse(w, r, domain.Forbidden("order.get", "owner identity required"))
		return
	}

	orderID, err := repository.ParseUUID(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, domain.Invalid("order.get", "invalid order id"))
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID, ownerID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// ListOrders handles GET /api/orders?store_id=...&status=...
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.GetOwnerID(ctx)
	if !ok {
		ErrorResponse(w, r, domain.Forbidden("order.list", "owner identity required"))
		return
	}

	storeID, err := repository.ParseUUID(r.URL.Query().Get("store_id"))
	if err != nil {
		ErrorResponse(w, r, domain.Invalid("order.list", "store_id query parameter is required"))
		return
	}

	var orders []domain.Order
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !status.Valid() {
			ErrorResponse(w, r, domain.Invalid("order.list", "unknown status "+raw))
			return
		}
		orders, err = h.orders.ListOrdersByStatus(ctx, storeID, ownerID, status)
	} else {
		orders, err = h.orders.ListOrders(ctx, storeID, ownerID)
	}
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.GetOwnerID(ctx)
	if !ok {
		ErrorResponse(w, r, domain.Forbidden("order.update_status", "owner identity required"))
		return
	}

	orderID, err := repository.ParseUUID(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, domain.Invalid("order.update_status", "invalid order id"))
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, domain.Invalid("order.update_status", "malformed request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		ValidationErrorResponse(w, r, domain.Invalid("order.update_status", "invalid status request"), fieldErrors(err))
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		ErrorResponse(w, r, domain.Invalid("order.update_status", "unknown status "+req.Status))
		return
	}

	order, err := h.orders.UpdateOrderStatus(ctx, orderID, ownerID, status)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// fieldErrors flattens validator errors into a field→message map.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Error()
	}
	return fields
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
