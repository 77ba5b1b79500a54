package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Store is a row of the stores table. The contact number is AES-256-GCM
// encrypted at rest; decryption happens in the store directory service.
type Store struct {
	ID               pgtype.UUID
	OwnerID          pgtype.UUID
	Slug             string
	Name             string
	ContactNumberEnc []byte
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

// Product is a row of the products table.
type Product struct {
	ID             pgtype.UUID
	StoreID        pgtype.UUID
	Name           string
	Sku            pgtype.Text
	Price          decimal.Decimal
	DiscountPrice  decimal.NullDecimal
	TrackInventory bool
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

// Inventory is a row of the inventories table, 0-or-1 per product.
type Inventory struct {
	ProductID pgtype.UUID
	Stock     int32
}

// ProductVariant is a row of the product_variants table.
type ProductVariant struct {
	ID             pgtype.UUID
	ProductID      pgtype.UUID
	Name           string
	Price          decimal.NullDecimal
	UseParentPrice bool
	Stock          int32
	UseParentStock bool
	TrackInventory bool
}

// Order is a row of the orders table.
type Order struct {
	ID                pgtype.UUID
	StoreID           pgtype.UUID
	CustomerName      string
	CustomerPhoneHash string
	CustomerAddress   pgtype.Text
	Total             decimal.Decimal
	Status            string
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
}

// OrderItem is a row of the order_items table. VariantID is invalid for base
// product lines.
type OrderItem struct {
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
