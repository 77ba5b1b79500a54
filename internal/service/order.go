package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lapakgo/lapak/internal/crypto"
	"github.com/lapakgo/lapak/internal/domain"
	"github.com/lapakgo/lapak/internal/events"
	"github.com/lapakgo/lapak/internal/repository"
	"github.com/lapakgo/lapak/internal/telemetry"
)

// orderService implements domain.OrderService over a transactional datastore.
type orderService struct {
	store      repository.Transactor
	hasher     *crypto.PhoneHasher
	publisher  events.Publisher
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
	reconciler stockReconciler
}

// NewOrderService creates the order engine. The datastore is the single
// source of truth; no cross-request state is held in memory.
func NewOrderService(
	store repository.Transactor,
	hasher *crypto.PhoneHasher,
	publisher events.Publisher,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) domain.OrderService {
	return &orderService{
		store:      store,
		hasher:     hasher,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		reconciler: stockReconciler{metrics: metrics},
	}
}

// CreateOrder validates the request against live catalog stock, then books
// the order and its line items in one transaction. Stock is only checked
// here; the PENDING state reserves it implicitly and the physical decrement
// happens on completion.
func (s *orderService) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.Order, error) {
	if strings.TrimSpace(params.CustomerName) == "" {
		return nil, domain.Invalid("order.create", "customer name is required")
	}
	if strings.TrimSpace(params.CustomerPhone) == "" {
		return nil, domain.Invalid("order.create", "customer phone is required")
	}
	if len(params.Items) == 0 {
		return nil, domain.Invalid("order.create", "order must contain at least one item")
	}

	if _, err := s.store.GetStore(ctx, params.StoreID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, storeErr(err, "order.create", "failed to load store")
	}

	productIDs := make([]pgtype.UUID, len(params.Items))
	for i, item := range params.Items {
		productIDs[i] = item.ProductID
	}
	cat, err := loadCatalog(ctx, s.store, params.StoreID, productIDs)
	if err != nil {
		return nil, err
	}

	lines, total, err := buildOrderLines(cat, params.Items)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.metrics.StockInsufficiency.Inc()
		}
		return nil, err
	}

	var order *domain.Order
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		row, err := q.CreateOrder(ctx, repository.CreateOrderParams{
			ID:                repository.NewUUID(),
			StoreID:           params.StoreID,
			CustomerName:      params.CustomerName,
			CustomerPhoneHash: s.hasher.Hash(params.CustomerPhone),
			CustomerAddress:   textFrom(params.CustomerAddress),
			Total:             total,
			Status:            string(domain.OrderStatusPending),
		})
		if err != nil {
			return storeErr(err, "order.create", "failed to insert order")
		}

		items := make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			itemRow, err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
				ID:          repository.NewUUID(),
				OrderID:     row.ID,
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				VariantID:   line.VariantID,
				VariantName: textFrom(line.VariantName),
				Quantity:    line.Quantity,
				Price:       line.Price,
				Sku:         textFrom(line.SKU),
			})
			if err != nil {
				return storeErr(err, "order.create", "failed to insert order item")
			}
			items = append(items, toDomainOrderItem(itemRow))
		}

		order = toDomainOrder(row, items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	storeLabel := uuidLabel(order.StoreID)
	s.metrics.OrdersCreated.WithLabelValues(storeLabel).Inc()
	value, _ := order.Total.Float64()
	s.metrics.OrderValue.WithLabelValues(storeLabel).Observe(value)
	s.metrics.OrderItemCount.Observe(float64(len(order.Items)))
	s.publisher.OrderCreated(ctx, order)
	s.logger.Info("order created",
		"order_id", uuidLabel(order.ID),
		"store_id", storeLabel,
		"total", order.Total.String(),
		"items", len(order.Items),
	)
	return order, nil
}

// UpdateOrderStatus moves an order through the lifecycle. Stock adjustment
// and the status write share one transaction, so an insufficiency mid-way
// leaves both stock and status untouched. The status write is conditional
// on the status read at the start, so two requests racing over the same
// order cannot apply the same transition twice.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID, ownerID pgtype.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("order.update_status", "unknown order status")
	}

	var (
		order    *domain.Order
		previous domain.OrderStatus
		noop     bool
	)
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		row, err := q.GetOrder(ctx, orderID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return storeErr(err, "order.update_status", "failed to load order")
		}

		owner, err := q.GetStore(ctx, row.StoreID)
		if err != nil {
			return storeErr(err, "order.update_status", "failed to load store")
		}
		if owner.OwnerID != ownerID {
			return domain.ErrAccessDenied
		}

		itemRows, err := q.ListOrderItems(ctx, row.ID)
		if err != nil {
			return storeErr(err, "order.update_status", "failed to load order items")
		}
		items := make([]domain.OrderItem, len(itemRows))
		for i, it := range itemRows {
			items[i] = toDomainOrderItem(it)
		}

		previous = domain.OrderStatus(row.Status)
		if previous == status {
			// Idempotent: no stock movement, no updated_at bump.
			order = toDomainOrder(row, items)
			noop = true
			return nil
		}

		if err := s.reconciler.apply(ctx, q, items, previous, status); err != nil {
			return err
		}

		updated, err := q.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
			ID:             row.ID,
			Status:         string(status),
			ExpectedStatus: string(previous),
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Conflict("order.update_status", "order was changed by another request")
		}
		if err != nil {
			return storeErr(err, "order.update_status", "failed to persist status")
		}
		order = toDomainOrder(updated, items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		s.metrics.StatusTransitions.WithLabelValues(string(previous), string(status)).Inc()
		s.publisher.OrderStatusChanged(ctx, order, previous)
		s.logger.Info("order status changed",
			"order_id", uuidLabel(order.ID),
			"from", previous,
			"to", status,
		)
	}
	return order, nil
}

// GetOrder retrieves one order with its items, enforcing store ownership.
func (s *orderService) GetOrder(ctx context.Context, orderID, ownerID pgtype.UUID) (*domain.Order, error) {
	row, err := repository.Read(ctx, func() (repository.Order, error) {
		return s.store.GetOrder(ctx, orderID)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, storeErr(err, "order.get", "failed to load order")
	}

	if err := s.checkOwnership(ctx, row.StoreID, ownerID, "order.get"); err != nil {
		return nil, err
	}

	itemRows, err := s.store.ListOrderItems(ctx, row.ID)
	if err != nil {
		return nil, storeErr(err, "order.get", "failed to load order items")
	}
	items := make([]domain.OrderItem, len(itemRows))
	for i, it := range itemRows {
		items[i] = toDomainOrderItem(it)
	}
	return toDomainOrder(row, items), nil
}

// ListOrders lists a store's orders, newest first.
func (s *orderService) ListOrders(ctx context.Context, storeID, ownerID pgtype.UUID) ([]domain.Order, error) {
	if err := s.checkOwnership(ctx, storeID, ownerID, "order.list"); err != nil {
		return nil, err
	}

	rows, err := repository.Read(ctx, func() ([]repository.Order, error) {
		return s.store.ListOrdersByStore(ctx, storeID)
	})
	if err != nil {
		return nil, storeErr(err, "order.list", "failed to list orders")
	}
	return s.hydrateOrders(ctx, rows)
}

// ListOrdersByStatus lists a store's orders in one status, newest first.
func (s *orderService) ListOrdersByStatus(ctx context.Context, storeID, ownerID pgtype.UUID, status domain.OrderStatus) ([]domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("order.list", "unknown order status")
	}
	if err := s.checkOwnership(ctx, storeID, ownerID, "order.list"); err != nil {
		return nil, err
	}

	rows, err := repository.Read(ctx, func() ([]repository.Order, error) {
		return s.store.ListOrdersByStoreAndStatus(ctx, repository.ListOrdersByStoreAndStatusParams{
			StoreID: storeID,
			Status:  string(status),
		})
	})
	if err != nil {
		return nil, storeErr(err, "order.list", "failed to list orders")
	}
	return s.hydrateOrders(ctx, rows)
}

func (s *orderService) checkOwnership(ctx context.Context, storeID, ownerID pgtype.UUID, op string) error {
	store, err := s.store.GetStore(ctx, storeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrStoreNotFound
	}
	if err != nil {
		return storeErr(err, op, "failed to load store")
	}
	if store.OwnerID != ownerID {
		return domain.ErrAccessDenied
	}
	return nil
}

func (s *orderService) hydrateOrders(ctx context.Context, rows []repository.Order) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		itemRows, err := s.store.ListOrderItems(ctx, row.ID)
		if err != nil {
			return nil, storeErr(err, "order.list", "failed to load order items")
		}
		items := make([]domain.OrderItem, len(itemRows))
		for i, it := range itemRows {
			items[i] = toDomainOrderItem(it)
		}
		orders = append(orders, *toDomainOrder(row, items))
	}
	return orders, nil
}

func toDomainOrder(row repository.Order, items []domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:                row.ID,
		StoreID:           row.StoreID,
		CustomerName:      row.CustomerName,
		CustomerPhoneHash: row.CustomerPhoneHash,
		CustomerAddress:   row.CustomerAddress.String,
		Total:             row.Total,
		Status:            domain.OrderStatus(row.Status),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		Items:             items,
	}
}

func toDomainOrderItem(row repository.OrderItem) domain.OrderItem {
	return domain.OrderItem{
		ID:          row.ID,
		OrderID:     row.OrderID,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		VariantID:   row.VariantID,
		VariantName: row.VariantName.String,
		Quantity:    row.Quantity,
		Price:       row.Price,
		SKU:         row.Sku.String,
	}
}

func textFrom(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func uuidLabel(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}
