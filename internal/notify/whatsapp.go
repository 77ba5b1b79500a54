// Package notify builds merchant-facing order notifications. Pure string
// construction; no persistence or stock involvement.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lapakgo/lapak/internal/domain"
)

// OrderMessage renders a human-readable order summary: one bulleted line per
// item with quantity, name, optional sku and formatted unit price, followed
// by the formatted grand total.
func OrderMessage(order *domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order from %s\n\n", order.CustomerName)
	for _, item := range order.Items {
		name := item.ProductName
		if item.VariantName != "" {
			name = fmt.Sprintf("%s (%s)", item.ProductName, item.VariantName)
		}
		fmt.Fprintf(&b, "- %dx %s", item.Quantity, name)
		if item.SKU != "" {
			fmt.Fprintf(&b, " [%s]", item.SKU)
		}
		fmt.Fprintf(&b, " @ %s\n", item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s", order.Total.StringFixed(2))
	if order.CustomerAddress != "" {
		fmt.Fprintf(&b, "\nDeliver to: %s", order.CustomerAddress)
	}
	return b.String()
}

// WhatsAppLink builds a wa.me deep link carrying the URL-encoded order
// message, addressed to the store's contact number. When the store has no
// contact number configured, the link omits the destination but still
// carries a valid encoded message; the caller decides whether to surface it.
func WhatsAppLink(store *domain.Store, order *domain.Order) string {
	number := digitsOnly(store.ContactNumber)
	query := url.Values{"text": {OrderMessage(order)}}
	return fmt.Sprintf("https://wa.me/%s?%s", number, query.Encode())
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
