package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lapakgo/lapak/internal/domain"
	"github.com/lapakgo/lapak/internal/repository"
)

// catalog indexes the stock-relevant product data loaded for one request.
type catalog map[pgtype.UUID]*domain.Product

// loadCatalog resolves the requested product ids within one store, pulling
// each product's lazily-created inventory row and full variant list. When
// the resolved count does not match the number of unique requested ids, some
// id does not exist or belongs to another store; the whole order is rejected
// with ErrCatalogMismatch rather than partially fulfilled.
func loadCatalog(ctx context.Context, q repository.Querier, storeID pgtype.UUID, productIDs []pgtype.UUID) (catalog, error) {
	unique := dedupeIDs(productIDs)

	rows, err := q.ListCatalogProducts(ctx, repository.ListCatalogProductsParams{
		StoreID:    storeID,
		ProductIDs: unique,
	})
	if err != nil {
		return nil, storeErr(err, "catalog.load", "failed to load products")
	}
	if len(rows) != len(unique) {
		return nil, domain.ErrCatalogMismatch
	}

	cat := make(catalog, len(rows))
	for _, row := range rows {
		product := toDomainProduct(row)

		inv, err := q.GetInventory(ctx, row.ID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// No row yet: stock not tracked for the base item.
		case err != nil:
			return nil, storeErr(err, "catalog.load", "failed to load inventory")
		default:
			product.Inventory = &domain.Inventory{ProductID: inv.ProductID, Stock: inv.Stock}
		}

		variants, err := q.ListProductVariants(ctx, row.ID)
		if err != nil {
			return nil, storeErr(err, "catalog.load", "failed to load variants")
		}
		for _, v := range variants {
			product.Variants = append(product.Variants, toDomainVariant(v))
		}

		cat[product.ID] = product
	}
	return cat, nil
}

func dedupeIDs(ids []pgtype.UUID) []pgtype.UUID {
	seen := make(map[pgtype.UUID]struct{}, len(ids))
	unique := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func toDomainProduct(p repository.Product) *domain.Product {
	product := &domain.Product{
		ID:             p.ID,
		StoreID:        p.StoreID,
		Name:           p.Name,
		SKU:            p.Sku.String,
		Price:          p.Price,
		TrackInventory: p.TrackInventory,
	}
	if p.DiscountPrice.Valid {
		d := p.DiscountPrice.Decimal
		product.DiscountPrice = &d
	}
	return product
}

func toDomainVariant(v repository.ProductVariant) domain.ProductVariant {
	return domain.ProductVariant{
		ID:        v.ID,
		ProductID: v.ProductID,
		Name:      v.Name,
		Price:     v.Price.Decimal,
		// A NULL price defers to the parent even when the flag is unset,
		// so an inconsistent row never prices a line at zero.
		UseParentPrice: v.UseParentPrice || !v.Price.Valid,
		Stock:          v.Stock,
		UseParentStock: v.UseParentStock,
		TrackInventory: v.TrackInventory,
	}
}

// storeErr passes transient failures through for retry classification and
// wraps everything else as internal.
func storeErr(err error, op, message string) error {
	if domain.Retryable(err) {
		return err
	}
	return domain.Internal(err, op, message)
}
