package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Catalog-related domain errors.
var (
	ErrStoreNotFound   = &Error{Code: ENOTFOUND, Message: "Store not found"}
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrVariantNotFound = &Error{Code: ENOTFOUND, Message: "Product variant not found"}

	// ErrCatalogMismatch means the requested product ids do not resolve 1:1
	// within the store. The whole order is rejected rather than partially
	// fulfilled.
	ErrCatalogMismatch = &Error{Code: EINVALID, Message: "One or more products do not belong to this store"}
)

// Store identifies a merchant. ContactNumber is held encrypted at rest and
// carried decrypted here; it feeds the WhatsApp notification link only.
type Store struct {
	ID            pgtype.UUID        `json:"id"`
	OwnerID       pgtype.UUID        `json:"owner_id"`
	Slug          string             `json:"slug"`
	Name          string             `json:"name"`
	ContactNumber string             `json:"-"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

// Product carries the stock-relevant fields of a catalog item, together with
// its lazily-created Inventory row (nil when the base item is untracked) and
// its variants.
type Product struct {
	ID             pgtype.UUID
	StoreID        pgtype.UUID
	Name           string
	SKU            string
	Price          decimal.Decimal
	DiscountPrice  *decimal.Decimal
	TrackInventory bool

	Inventory *Inventory
	Variants  []ProductVariant
}

// EffectivePrice is the discount price when set, otherwise the base price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Variant returns the product's variant with the given id, or nil when the
// variant does not belong to this product.
func (p *Product) Variant(id pgtype.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// Inventory is the product's own stock counter, used when a line item has no
// variant or when a variant defers to the parent with UseParentStock.
type Inventory struct {
	ProductID pgtype.UUID
	Stock     int32
}

// ProductVariant belongs to exactly one Product. Price and stock each either
// live on the variant or defer to the parent, per the UseParent* flags.
type ProductVariant struct {
	ID             pgtype.UUID
	ProductID      pgtype.UUID
	Name           string
	Price          decimal.Decimal
	UseParentPrice bool
	Stock          int32
	UseParentStock bool
	TrackInventory bool
}

// StoreDirectory resolves merchant stores for checkout and notifications.
// Read-only; store CRUD lives outside this engine.
type StoreDirectory interface {
	// GetStore retrieves a store by id.
	GetStore(ctx context.Context, id pgtype.UUID) (*Store, error)

	// GetStoreBySlug retrieves a store by its public slug.
	GetStoreBySlug(ctx context.Context, slug string) (*Store, error)
}
