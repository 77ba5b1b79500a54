package domain

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order lifecycle states. Transitions form
// a full graph: any status may move to any other, and moves in and out of
// OrderStatusCompleted are the only ones that touch stock.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Statuses lists every order status, in lifecycle order.
func Statuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}
}

// Order-related domain errors.
var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}

	// ErrAccessDenied means the caller is not the owner of the store the
	// order belongs to.
	ErrAccessDenied = &Error{Code: EFORBIDDEN, Message: "Access denied: order belongs to another store owner"}

	// ErrInsufficientStock is the sentinel all shortage errors wrap; use
	// InsufficientStock to build one naming the offending item.
	ErrInsufficientStock = &Error{Code: ECONFLICT, Message: "Insufficient stock"}
)

// InsufficientStock builds a shortage error naming the offending product and,
// when the shortage is on a variant's own pool, the variant.
// errors.Is(err, ErrInsufficientStock) matches the result.
func InsufficientStock(productName, variantName string) error {
	name := productName
	if variantName != "" {
		name = fmt.Sprintf("%s (%s)", productName, variantName)
	}
	return &Error{
		Code:    ECONFLICT,
		Message: fmt.Sprintf("Insufficient stock for %s", name),
		Err:     ErrInsufficientStock,
	}
}

// Order belongs to exactly one Store. The customer phone is stored as a
// one-way hash; status is the only field mutated after creation.
type Order struct {
	ID                pgtype.UUID        `json:"id"`
	StoreID           pgtype.UUID        `json:"store_id"`
	CustomerName      string             `json:"customer_name"`
	CustomerPhoneHash string             `json:"customer_phone_hash"`
	CustomerAddress   string             `json:"customer_address,omitempty"`
	Total             decimal.Decimal    `json:"total"`
	Status            OrderStatus        `json:"status"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
	Items             []OrderItem        `json:"items"`
}

// OrderItem is a denormalized snapshot captured at order time: later catalog
// edits never alter the name, price, or sku recorded here.
type OrderItem struct {
	ID          pgtype.UUID     `json:"id"`
	OrderID     pgtype.UUID     `json:"order_id"`
	ProductID   pgtype.UUID     `json:"product_id"`
	ProductName string          `json:"product_name"`
	VariantID   pgtype.UUID     `json:"variant_id,omitzero"`
	VariantName string          `json:"variant_name,omitempty"`
	Quantity    int32           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku,omitempty"`
}

// NewOrderItem is one requested line of an incoming order. VariantID is left
// invalid when the customer ordered the base product.
type NewOrderItem struct {
	ProductID pgtype.UUID
	Quantity  int32
	VariantID pgtype.UUID
}

// CreateOrderParams carries everything needed to place an order.
type CreateOrderParams struct {
	StoreID         pgtype.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Items           []NewOrderItem
}

// OrderService is the engine's public surface: order placement, the status
// lifecycle with stock reconciliation, and ownership-checked reads.
type OrderService interface {
	// CreateOrder validates the requested items against live stock, then
	// atomically books the order and its line items with status PENDING.
	// Stock is checked but not decremented at creation time.
	CreateOrder(ctx context.Context, params CreateOrderParams) (*Order, error)

	// UpdateOrderStatus drives the order through its lifecycle. Entering
	// COMPLETED decrements each line's stock pool; leaving COMPLETED
	// restores it. Stock mutation and the status write share one
	// transaction. A same-status update is a no-op.
	UpdateOrderStatus(ctx context.Context, orderID, ownerID pgtype.UUID, status OrderStatus) (*Order, error)

	// GetOrder retrieves one order with items, enforcing store ownership.
	GetOrder(ctx context.Context, orderID, ownerID pgtype.UUID) (*Order, error)

	// ListOrders lists a store's orders, newest first, enforcing ownership.
	ListOrders(ctx context.Context, storeID, ownerID pgtype.UUID) ([]Order, error)

	// ListOrdersByStatus is ListOrders filtered to a single status.
	ListOrdersByStatus(ctx context.Context, storeID, ownerID pgtype.UUID, status OrderStatus) ([]Order, error)
}
