package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lapakgo/lapak/internal/domain"
	"github.com/lapakgo/lapak/internal/repository"
	"github.com/lapakgo/lapak/internal/telemetry"
)

// stockReconciler applies the stock effects of an order status change.
//
// Policy: only COMPLETED carries a stock commitment. Entering COMPLETED
// decrements every tracked line's pool; leaving COMPLETED restores it.
// PENDING and CANCELLED are stock-neutral in both directions, so a
// PENDING⇄CANCELLED move never touches a counter.
//
// Tracking flags and pool ownership are re-resolved against the live catalog
// at transition time, not the order-time snapshot: a product or variant
// whose tracking was switched off after checkout is skipped on both the
// decrement and the increment side, and a line whose product or variant was
// deleted is skipped entirely.
type stockReconciler struct {
	metrics *telemetry.BusinessMetrics
}

// apply runs inside the caller's transaction; the caller persists the status
// afterwards so stock mutation and status change commit as a unit.
func (r stockReconciler) apply(ctx context.Context, q repository.Querier, items []domain.OrderItem, from, to domain.OrderStatus) error {
	switch {
	case to == domain.OrderStatusCompleted && from != domain.OrderStatusCompleted:
		return r.commit(ctx, q, items)
	case from == domain.OrderStatusCompleted && to != domain.OrderStatusCompleted:
		return r.release(ctx, q, items)
	default:
		return nil
	}
}

// commit decrements each line's live pool. The decrement is conditional on
// sufficiency, so a short pool fails the whole transition and the enclosing
// transaction rolls every prior decrement back.
func (r stockReconciler) commit(ctx context.Context, q repository.Querier, items []domain.OrderItem) error {
	for _, item := range items {
		line, err := r.resolveLivePool(ctx, q, item)
		if err != nil {
			return err
		}
		if line == nil {
			continue
		}

		var affected int64
		arg := repository.AdjustStockParams{ID: line.poolID, Quantity: item.Quantity}
		if line.variantOwned {
			affected, err = q.DecrementVariantStock(ctx, arg)
		} else {
			affected, err = q.DecrementInventoryStock(ctx, arg)
		}
		if err != nil {
			return storeErr(err, "order.reconcile", "failed to decrement stock")
		}
		if affected == 0 {
			r.metrics.StockInsufficiency.Inc()
			return domain.InsufficientStock(line.productName, line.variantLabel)
		}
		r.metrics.StockDecrements.Inc()
	}
	return nil
}

// release performs the symmetric increment, unconditionally restoring stock
// previously committed. The inventory increment upserts, so a pool whose row
// was lazily absent gains one.
func (r stockReconciler) release(ctx context.Context, q repository.Querier, items []domain.OrderItem) error {
	for _, item := range items {
		line, err := r.resolveLivePool(ctx, q, item)
		if err != nil {
			return err
		}
		if line == nil {
			continue
		}

		arg := repository.AdjustStockParams{ID: line.poolID, Quantity: item.Quantity}
		if line.variantOwned {
			err = q.IncrementVariantStock(ctx, arg)
		} else {
			err = q.IncrementInventoryStock(ctx, arg)
		}
		if err != nil {
			return storeErr(err, "order.reconcile", "failed to increment stock")
		}
		r.metrics.StockIncrements.Inc()
	}
	return nil
}

// resolvedPool identifies which counter a line item owns right now.
type resolvedPool struct {
	poolID       pgtype.UUID
	variantOwned bool
	productName  string
	variantLabel string
}

// resolveLivePool reloads the line's product (and variant, if any) and
// applies the same ownership rule as order creation. Returns nil when the
// line is currently untracked or its catalog rows no longer exist.
func (r stockReconciler) resolveLivePool(ctx context.Context, q repository.Querier, item domain.OrderItem) (*resolvedPool, error) {
	product, err := q.GetProduct(ctx, item.ProductID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "order.reconcile", "failed to load product")
	}

	var variant *domain.ProductVariant
	if item.VariantID.Valid {
		row, err := q.GetProductVariant(ctx, item.VariantID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, storeErr(err, "order.reconcile", "failed to load variant")
		}
		v := toDomainVariant(row)
		variant = &v
	}

	tracked, variantOwned := resolveStockOwner(product.TrackInventory, variant)
	if !tracked {
		return nil, nil
	}

	pool := &resolvedPool{
		poolID:       product.ID,
		variantOwned: variantOwned,
		productName:  product.Name,
		variantLabel: variantName(variant),
	}
	if variantOwned {
		pool.poolID = variant.ID
	}
	return pool, nil
}
