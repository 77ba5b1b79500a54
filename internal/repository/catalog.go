package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listCatalogProducts = `
SELECT id, store_id, name, sku, price, discount_price, track_inventory, created_at, updated_at
FROM products
WHERE store_id = $1 AND id = ANY($2)
`

// ListCatalogProductsParams scopes a batch product fetch to one store.
type ListCatalogProductsParams struct {
	StoreID    pgtype.UUID
	ProductIDs []pgtype.UUID
}

// ListCatalogProducts returns the store's products matching the requested
// ids. Ids that do not exist or belong to another store are simply absent
// from the result; the caller compares counts.
func (q *Queries) ListCatalogProducts(ctx context.Context, arg ListCatalogProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listCatalogProducts, arg.StoreID, arg.ProductIDs)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, classify(rows.Err())
}

const getProduct = `
SELECT id, store_id, name, sku, price, discount_price, track_inventory, created_at, updated_at
FROM products
WHERE id = $1
`

// GetProduct retrieves a single product row.
func (q *Queries) GetProduct(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var (
		p             Product
		price         pgtype.Numeric
		discountPrice pgtype.Numeric
	)
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Sku, &price, &discountPrice, &p.TrackInventory, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, classify(err)
	}
	p.Price = decimalFromNumeric(price)
	p.DiscountPrice = nullDecimalFromNumeric(discountPrice)
	return p, nil
}

const getInventory = `
SELECT product_id, stock
FROM inventories
WHERE product_id = $1
`

// GetInventory retrieves a product's own stock row. Returns pgx.ErrNoRows
// when the row was never created (stock not tracked for the base item).
func (q *Queries) GetInventory(ctx context.Context, productID pgtype.UUID) (Inventory, error) {
	row := q.db.QueryRow(ctx, getInventory, productID)
	var inv Inventory
	err := row.Scan(&inv.ProductID, &inv.Stock)
	return inv, classify(err)
}

const listProductVariants = `
SELECT id, product_id, name, price, use_parent_price, stock, use_parent_stock, track_inventory
FROM product_variants
WHERE product_id = $1
ORDER BY name
`

// ListProductVariants returns all variants of a product.
func (q *Queries) ListProductVariants(ctx context.Context, productID pgtype.UUID) ([]ProductVariant, error) {
	rows, err := q.db.Query(ctx, listProductVariants, productID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var items []ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, classify(rows.Err())
}

const getProductVariant = `
SELECT id, product_id, name, price, use_parent_price, stock, use_parent_stock, track_inventory
FROM product_variants
WHERE id = $1
`

// GetProductVariant retrieves a single variant row.
func (q *Queries) GetProductVariant(ctx context.Context, id pgtype.UUID) (ProductVariant, error) {
	return scanVariant(q.db.QueryRow(ctx, getProductVariant, id))
}

func scanVariant(row scanner) (ProductVariant, error) {
	var (
		v     ProductVariant
		price pgtype.Numeric
	)
	err := row.Scan(&v.ID, &v.ProductID, &v.Name, &price, &v.UseParentPrice, &v.Stock, &v.UseParentStock, &v.TrackInventory)
	if err != nil {
		return ProductVariant{}, classify(err)
	}
	v.Price = nullDecimalFromNumeric(price)
	return v, nil
}

const decrementInventoryStock = `
UPDATE inventories
SET stock = stock - $2
WHERE product_id = $1 AND stock >= $2
`

// AdjustStockParams targets one stock counter. ID is a product id for the
// inventory methods and a variant id for the variant methods.
type AdjustStockParams struct {
	ID       pgtype.UUID
	Quantity int32
}

// DecrementInventoryStock conditionally takes stock from a product's own
// pool. Zero rows affected means the pool cannot cover the quantity (or the
// row does not exist); concurrent decrements serialize on the row lock.
func (q *Queries) DecrementInventoryStock(ctx context.Context, arg AdjustStockParams) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementInventoryStock, arg.ID, arg.Quantity)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

const incrementInventoryStock = `
INSERT INTO inventories (product_id, stock)
VALUES ($1, $2)
ON CONFLICT (product_id) DO UPDATE SET stock = inventories.stock + EXCLUDED.stock
`

// IncrementInventoryStock returns stock to a product's own pool, creating
// the lazily-absent inventory row if needed. Never fails on sufficiency.
func (q *Queries) IncrementInventoryStock(ctx context.Context, arg AdjustStockParams) error {
	_, err := q.db.Exec(ctx, incrementInventoryStock, arg.ID, arg.Quantity)
	return classify(err)
}

const decrementVariantStock = `
UPDATE product_variants
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`

// DecrementVariantStock conditionally takes stock from a variant's own pool.
func (q *Queries) DecrementVariantStock(ctx context.Context, arg AdjustStockParams) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementVariantStock, arg.ID, arg.Quantity)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

const incrementVariantStock = `
UPDATE product_variants
SET stock = stock + $2
WHERE id = $1
`

// IncrementVariantStock returns stock to a variant's own pool.
func (q *Queries) IncrementVariantStock(ctx context.Context, arg AdjustStockParams) error {
	_, err := q.db.Exec(ctx, incrementVariantStock, arg.ID, arg.Quantity)
	return classify(err)
}
