package service

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/lapakgo/lapak/internal/domain"
)

// orderLine is one priced, stock-checked line ready to be persisted as an
// immutable snapshot.
type orderLine struct {
	ProductID   pgtype.UUID
	ProductName string
	VariantID   pgtype.UUID
	VariantName string
	SKU         string
	Quantity    int32
	Price       decimal.Decimal
}

// buildOrderLines prices each requested item and validates its quantity
// against the effective stock pool. Pure computation over catalog data
// already read; no side effects. Any failing line aborts the entire order.
func buildOrderLines(cat catalog, items []domain.NewOrderItem) ([]orderLine, decimal.Decimal, error) {
	lines := make([]orderLine, 0, len(items))
	total := decimal.Decimal{}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, decimal.Decimal{}, domain.Invalid("order.create", "item quantity must be greater than zero")
		}

		product, ok := cat[item.ProductID]
		if !ok {
			// The catalog mismatch check rejects unknown ids before this
			// point; reaching here is a programming error.
			return nil, decimal.Decimal{}, domain.Errorf(domain.EINTERNAL, "order.create", "product missing from loaded catalog")
		}

		var variant *domain.ProductVariant
		if item.VariantID.Valid {
			if variant = product.Variant(item.VariantID); variant == nil {
				return nil, decimal.Decimal{}, domain.ErrVariantNotFound
			}
		}

		tracked, variantOwned := resolveStockOwner(product.TrackInventory, variant)
		if tracked {
			available := int32(0)
			if variantOwned {
				available = variant.Stock
			} else if product.Inventory != nil {
				available = product.Inventory.Stock
			}
			if item.Quantity > available {
				return nil, decimal.Decimal{}, domain.InsufficientStock(product.Name, variantName(variant))
			}
		}

		price := resolveUnitPrice(product, variant)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

		lines = append(lines, orderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			VariantID:   item.VariantID,
			VariantName: variantName(variant),
			SKU:         product.SKU,
			Quantity:    item.Quantity,
			Price:       price,
		})
	}

	return lines, total, nil
}

// resolveUnitPrice picks the variant's own price unless the line has no
// variant or the variant defers to the parent, in which case the product's
// discount price wins over its base price.
func resolveUnitPrice(product *domain.Product, variant *domain.ProductVariant) decimal.Decimal {
	if variant == nil || variant.UseParentPrice {
		return product.EffectivePrice()
	}
	return variant.Price
}

// resolveStockOwner applies the parent/variant stock-ownership rule: the
// parent Inventory pool governs lines without a variant and lines whose
// variant defers with UseParentStock; otherwise the variant's own stock
// field governs. A variant that opted out of tracking is never checked or
// mutated, regardless of the parent's flag.
func resolveStockOwner(productTracks bool, variant *domain.ProductVariant) (tracked, variantOwned bool) {
	switch {
	case variant == nil:
		return productTracks, false
	case !variant.TrackInventory:
		return false, false
	case variant.UseParentStock:
		return productTracks, false
	default:
		return true, true
	}
}

func variantName(variant *domain.ProductVariant) string {
	if variant == nil {
		return ""
	}
	return variant.Name
}
