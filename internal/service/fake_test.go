package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/lapakgo/lapak/internal/crypto"
	"github.com/lapakgo/lapak/internal/domain"
	"github.com/lapakgo/lapak/internal/events"
	"github.com/lapakgo/lapak/internal/repository"
	"github.com/lapakgo/lapak/internal/telemetry"
)

// fakeStore is an in-memory repository.Transactor. ExecTx snapshots all
// mutable state before running fn and restores it on error, mirroring the
// rollback semantics of a real transaction.
type fakeStore struct {
	stores      map[pgtype.UUID]repository.Store
	products    map[pgtype.UUID]repository.Product
	inventories map[pgtype.UUID]int32
	variants    map[pgtype.UUID]repository.ProductVariant
	orders      map[pgtype.UUID]repository.Order
	orderSeq    []pgtype.UUID
	items       map[pgtype.UUID][]repository.OrderItem

	// failure injection
	createOrderItemErr error

	// runs once after the next order read, before the caller acts on it
	afterGetOrder func()
}

var _ repository.Transactor = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		stores:      make(map[pgtype.UUID]repository.Store),
		products:    make(map[pgtype.UUID]repository.Product),
		inventories: make(map[pgtype.UUID]int32),
		variants:    make(map[pgtype.UUID]repository.ProductVariant),
		orders:      make(map[pgtype.UUID]repository.Order),
		items:       make(map[pgtype.UUID][]repository.OrderItem),
	}
}

// --- seed helpers ---

func (f *fakeStore) addStore(ownerID pgtype.UUID, slug string) repository.Store {
	s := repository.Store{
		ID:      repository.NewUUID(),
		OwnerID: ownerID,
		Slug:    slug,
		Name:    "Store " + slug,
	}
	f.stores[s.ID] = s
	return s
}

func (f *fakeStore) addProduct(storeID pgtype.UUID, name string, price decimal.Decimal, track bool) repository.Product {
	p := repository.Product{
		ID:             repository.NewUUID(),
		StoreID:        storeID,
		Name:           name,
		Price:          price,
		TrackInventory: track,
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeStore) setInventory(productID pgtype.UUID, stock int32) {
	f.inventories[productID] = stock
}

func (f *fakeStore) addVariant(productID pgtype.UUID, name string, v repository.ProductVariant) repository.ProductVariant {
	v.ID = repository.NewUUID()
	v.ProductID = productID
	v.Name = name
	f.variants[v.ID] = v
	return v
}

// --- Querier ---

func (f *fakeStore) GetStore(_ context.Context, id pgtype.UUID) (repository.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return repository.Store{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) GetStoreBySlug(_ context.Context, slug string) (repository.Store, error) {
	for _, s := range f.stores {
		if s.Slug == slug {
			return s, nil
		}
	}
	return repository.Store{}, pgx.ErrNoRows
}

func (f *fakeStore) ListCatalogProducts(_ context.Context, arg repository.ListCatalogProductsParams) ([]repository.Product, error) {
	var out []repository.Product
	for _, id := range arg.ProductIDs {
		p, ok := f.products[id]
		if !ok || p.StoreID != arg.StoreID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id pgtype.UUID) (repository.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return repository.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) GetInventory(_ context.Context, productID pgtype.UUID) (repository.Inventory, error) {
	stock, ok := f.inventories[productID]
	if !ok {
		return repository.Inventory{}, pgx.ErrNoRows
	}
	return repository.Inventory{ProductID: productID, Stock: stock}, nil
}

func (f *fakeStore) ListProductVariants(_ context.Context, productID pgtype.UUID) ([]repository.ProductVariant, error) {
	var out []repository.ProductVariant
	for _, v := range f.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProductVariant(_ context.Context, id pgtype.UUID) (repository.ProductVariant, error) {
	v, ok := f.variants[id]
	if !ok {
		return repository.ProductVariant{}, pgx.ErrNoRows
	}
	return v, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	o := repository.Order{
		ID:                arg.ID,
		StoreID:           arg.StoreID,
		CustomerName:      arg.CustomerName,
		CustomerPhoneHash: arg.CustomerPhoneHash,
		CustomerAddress:   arg.CustomerAddress,
		Total:             arg.Total,
		Status:            arg.Status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	f.orders[o.ID] = o
	f.orderSeq = append(f.orderSeq, o.ID)
	return o, nil
}

func (f *fakeStore) CreateOrderItem(_ context.Context, arg repository.CreateOrderItemParams) (repository.OrderItem, error) {
	if f.createOrderItemErr != nil {
		return repository.OrderItem{}, f.createOrderItemErr
	}
	item := repository.OrderItem{
		ID:          arg.ID,
		OrderID:     arg.OrderID,
		ProductID:   arg.ProductID,
		ProductName: arg.ProductName,
		VariantID:   arg.VariantID,
		VariantName: arg.VariantName,
		Quantity:    arg.Quantity,
		Price:       arg.Price,
		Sku:         arg.Sku,
	}
	f.items[arg.OrderID] = append(f.items[arg.OrderID], item)
	return item, nil
}

func (f *fakeStore) GetOrder(_ context.Context, id pgtype.UUID) (repository.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	if f.afterGetOrder != nil {
		hook := f.afterGetOrder
		f.afterGetOrder = nil
		hook()
	}
	return o, nil
}

func (f *fakeStore) ListOrderItems(_ context.Context, orderID pgtype.UUID) ([]repository.OrderItem, error) {
	out := make([]repository.OrderItem, len(f.items[orderID]))
	copy(out, f.items[orderID])
	return out, nil
}

func (f *fakeStore) ListOrdersByStore(_ context.Context, storeID pgtype.UUID) ([]repository.Order, error) {
	var out []repository.Order
	// newest first
	for i := len(f.orderSeq) - 1; i >= 0; i-- {
		o := f.orders[f.orderSeq[i]]
		if o.StoreID == storeID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOrdersByStoreAndStatus(ctx context.Context, arg repository.ListOrdersByStoreAndStatusParams) ([]repository.Order, error) {
	all, _ := f.ListOrdersByStore(ctx, arg.StoreID)
	var out []repository.Order
	for _, o := range all {
		if o.Status == arg.Status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	o, ok := f.orders[arg.ID]
	if !ok || o.Status != arg.ExpectedStatus {
		return repository.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	o.UpdatedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	f.orders[arg.ID] = o
	return o, nil
}

func (f *fakeStore) DecrementInventoryStock(_ context.Context, arg repository.AdjustStockParams) (int64, error) {
	stock, ok := f.inventories[arg.ID]
	if !ok || stock < arg.Quantity {
		return 0, nil
	}
	f.inventories[arg.ID] = stock - arg.Quantity
	return 1, nil
}

func (f *fakeStore) IncrementInventoryStock(_ context.Context, arg repository.AdjustStockParams) error {
	f.inventories[arg.ID] += arg.Quantity
	return nil
}

func (f *fakeStore) DecrementVariantStock(_ context.Context, arg repository.AdjustStockParams) (int64, error) {
	v, ok := f.variants[arg.ID]
	if !ok || v.Stock < arg.Quantity {
		return 0, nil
	}
	v.Stock -= arg.Quantity
	f.variants[arg.ID] = v
	return 1, nil
}

func (f *fakeStore) IncrementVariantStock(_ context.Context, arg repository.AdjustStockParams) error {
	v, ok := f.variants[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	v.Stock += arg.Quantity
	f.variants[arg.ID] = v
	return nil
}

// ExecTx snapshots mutable state and restores it when fn fails.
func (f *fakeStore) ExecTx(_ context.Context, fn func(repository.Querier) error) error {
	inventories := make(map[pgtype.UUID]int32, len(f.inventories))
	for k, v := range f.inventories {
		inventories[k] = v
	}
	variants := make(map[pgtype.UUID]repository.ProductVariant, len(f.variants))
	for k, v := range f.variants {
		variants[k] = v
	}
	orders := make(map[pgtype.UUID]repository.Order, len(f.orders))
	for k, v := range f.orders {
		orders[k] = v
	}
	orderSeq := make([]pgtype.UUID, len(f.orderSeq))
	copy(orderSeq, f.orderSeq)
	items := make(map[pgtype.UUID][]repository.OrderItem, len(f.items))
	for k, v := range f.items {
		rows := make([]repository.OrderItem, len(v))
		copy(rows, v)
		items[k] = rows
	}

	if err := fn(f); err != nil {
		f.inventories = inventories
		f.variants = variants
		f.orders = orders
		f.orderSeq = orderSeq
		f.items = items
		return err
	}
	return nil
}

// --- capturing publisher ---

type capturingPublisher struct {
	created     []*domain.Order
	transitions []statusTransition
}

type statusTransition struct {
	order    *domain.Order
	previous domain.OrderStatus
}

func (p *capturingPublisher) OrderCreated(_ context.Context, order *domain.Order) {
	p.created = append(p.created, order)
}

func (p *capturingPublisher) OrderStatusChanged(_ context.Context, order *domain.Order, previous domain.OrderStatus) {
	p.transitions = append(p.transitions, statusTransition{order: order, previous: previous})
}

// --- wiring ---

func newTestOrderService(store *fakeStore) (domain.OrderService, *capturingPublisher) {
	hasher, err := crypto.NewPhoneHasher([]byte("test-hash-key"))
	if err != nil {
		panic(err)
	}
	publisher := &capturingPublisher{}
	metrics := telemetry.NewBusinessMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrderService(store, hasher, publisher, metrics, logger), publisher
}

var _ events.Publisher = (*capturingPublisher)(nil)
