// Package repository is the engine's data access layer over PostgreSQL.
//
// Queries runs against a DBTX, which both *pgxpool.Pool and pgx.Tx satisfy,
// so the same query methods serve pooled reads and transaction-scoped writes.
// Datastore wraps the pool and hands transaction-scoped Querier handles to
// callers via ExecTx; components never see an untyped transaction object.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx a query method needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries holds all query methods bound to a database handle.
type Queries struct {
	db DBTX
}

// New creates Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to a transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Querier lists every operation the engine performs against the store of
// record. Components depend on this interface, never on Queries directly, so
// tests can substitute an in-memory implementation.
type Querier interface {
	// Store directory
	GetStore(ctx context.Context, id pgtype.UUID) (Store, error)
	GetStoreBySlug(ctx context.Context, slug string) (Store, error)

	// Catalog
	ListCatalogProducts(ctx context.Context, arg ListCatalogProductsParams) ([]Product, error)
	GetProduct(ctx context.Context, id pgtype.UUID) (Product, error)
	GetInventory(ctx context.Context, productID pgtype.UUID) (Inventory, error)
	ListProductVariants(ctx context.Context, productID pgtype.UUID) ([]ProductVariant, error)
	GetProductVariant(ctx context.Context, id pgtype.UUID) (ProductVariant, error)

	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error)
	GetOrder(ctx context.Context, id pgtype.UUID) (Order, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error)
	ListOrdersByStore(ctx context.Context, storeID pgtype.UUID) ([]Order, error)
	ListOrdersByStoreAndStatus(ctx context.Context, arg ListOrdersByStoreAndStatusParams) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)

	// Stock mutation. Decrements are conditional (stock >= quantity) and
	// report rows affected; increments upsert so a lazily-absent inventory
	// row is created on restore.
	DecrementInventoryStock(ctx context.Context, arg AdjustStockParams) (int64, error)
	IncrementInventoryStock(ctx context.Context, arg AdjustStockParams) error
	DecrementVariantStock(ctx context.Context, arg AdjustStockParams) (int64, error)
	IncrementVariantStock(ctx context.Context, arg AdjustStockParams) error
}

var _ Querier = (*Queries)(nil)

// Transactor is what the service layer depends on: pooled queries plus the
// ability to run a function atomically on a transaction-scoped Querier.
type Transactor interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

// Datastore combines pooled queries with transaction execution.
type Datastore struct {
	*Queries
	pool *pgxpool.Pool
}

var _ Transactor = (*Datastore)(nil)

// NewDatastore creates a Datastore over a pgx connection pool.
func NewDatastore(pool *pgxpool.Pool) *Datastore {
	return &Datastore{
		Queries: New(pool),
		pool:    pool,
	}
}

// ExecTx runs fn inside a single database transaction. The Querier passed to
// fn is transaction-scoped; any error from fn rolls the whole transaction
// back, so partial writes never commit.
func (d *Datastore) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)

	if err := fn(d.Queries.WithTx(tx)); err != nil {
		return err
	}
	return classify(tx.Commit(ctx))
}
