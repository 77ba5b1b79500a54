package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const createOrder = `
INSERT INTO orders (id, store_id, customer_name, customer_phone_hash, customer_address, total, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, store_id, customer_name, customer_phone_hash, customer_address, total, status, created_at, updated_at
`

// CreateOrderParams carries a fully validated order row.
type CreateOrderParams struct {
	ID                pgtype.UUID
	StoreID           pgtype.UUID
	CustomerName      string
	CustomerPhoneHash string
	CustomerAddress   pgtype.Text
	Total             decimal.Decimal
	Status            string
}

// CreateOrder inserts the order row.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.ID, arg.StoreID, arg.CustomerName, arg.CustomerPhoneHash,
		arg.CustomerAddress, numericFromDecimal(arg.Total), arg.Status)
	return scanOrder(row)
}

const createOrderItem = `
INSERT INTO order_items (id, order_id, product_id, product_name, variant_id, variant_name, quantity, price, sku)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, order_id, product_id, product_name, variant_id, variant_name, quantity, price, sku
`

// CreateOrderItemParams carries one line-item snapshot.
type CreateOrderItemParams struct {
	ID          pgtype.UUID
	OrderID     pgtype.UUID
	ProductID   pgtype.UUID
	ProductName string
	VariantID   pgtype.UUID
	VariantName pgtype.Text
	Quantity    int32
	Price       decimal.Decimal
	Sku         pgtype.Text
}

// CreateOrderItem inserts one line item.
func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.ID, arg.OrderID, arg.ProductID, arg.ProductName,
		arg.VariantID, arg.VariantName, arg.Quantity, numericFromDecimal(arg.Price), arg.Sku)
	return scanOrderItem(row)
}

const getOrder = `
SELECT id, store_id, customer_name, customer_phone_hash, customer_address, total, status, created_at, updated_at
FROM orders
WHERE id = $1
`

// GetOrder retrieves one order row.
func (q *Queries) GetOrder(ctx context.Context, id pgtype.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const listOrderItems = `
SELECT id, order_id, product_id, product_name, variant_id, variant_name, quantity, price, sku
FROM order_items
WHERE order_id = $1
ORDER BY created_at, id
`

// ListOrderItems returns an order's line items in insertion order.
func (q *Queries) ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, classify(rows.Err())
}

const listOrdersByStore = `
SELECT id, store_id, customer_name, customer_phone_hash, customer_address, total, status, created_at, updated_at
FROM orders
WHERE store_id = $1
ORDER BY created_at DESC
`

// ListOrdersByStore returns a store's orders, newest first.
func (q *Queries) ListOrdersByStore(ctx context.Context, storeID pgtype.UUID) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByStore, storeID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

const listOrdersByStoreAndStatus = `
SELECT id, store_id, customer_name, customer_phone_hash, customer_address, total, status, created_at, updated_at
FROM orders
WHERE store_id = $1 AND status = $2
ORDER BY created_at DESC
`

// ListOrdersByStoreAndStatusParams filters a store's orders to one status.
type ListOrdersByStoreAndStatusParams struct {
	StoreID pgtype.UUID
	Status  string
}

// ListOrdersByStoreAndStatus returns a store's orders in one status, newest
// first.
func (q *Queries) ListOrdersByStoreAndStatus(ctx context.Context, arg ListOrdersByStoreAndStatusParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByStoreAndStatus, arg.StoreID, arg.Status)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1 AND status = $3
RETURNING id, store_id, customer_name, customer_phone_hash, customer_address, total, status, created_at, updated_at
`

// UpdateOrderStatusParams sets an order's status, guarded by the status the
// caller read at the start of the transaction.
type UpdateOrderStatusParams struct {
	ID             pgtype.UUID
	Status         string
	ExpectedStatus string
}

// UpdateOrderStatus persists the new status and bumps updated_at. Issued as
// the final step of a reconciliation transaction. The write matches only
// when the row still holds ExpectedStatus; a concurrent transition that
// committed first surfaces as pgx.ErrNoRows, so the stock adjustments made
// against the stale read never commit.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.ExpectedStatus))
}

func scanOrder(row scanner) (Order, error) {
	var (
		o     Order
		total pgtype.Numeric
	)
	err := row.Scan(&o.ID, &o.StoreID, &o.CustomerName, &o.CustomerPhoneHash,
		&o.CustomerAddress, &total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, classify(err)
	}
	o.Total = decimalFromNumeric(total)
	return o, nil
}

func scanOrderItem(row scanner) (OrderItem, error) {
	var (
		it    OrderItem
		price pgtype.Numeric
	)
	err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
		&it.VariantID, &it.VariantName, &it.Quantity, &price, &it.Sku)
	if err != nil {
		return OrderItem{}, classify(err)
	}
	it.Price = decimalFromNumeric(price)
	return it, nil
}

func collectOrders(rows interface {
	scanner
	Next() bool
	Err() error
}) ([]Order, error) {
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, classify(rows.Err())
}
