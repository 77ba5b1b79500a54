package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// OwnerIDHeader carries the authenticated store owner's id. The API
	// sits behind a gateway that authenticates the merchant and injects
	// this header on every request.
	OwnerIDHeader = "X-Owner-ID"

	// OwnerIDContextKey is the context key for the owner id
	OwnerIDContextKey contextKey = "owner_id"
)

// WithOwner extracts the store owner id from the X-Owner-ID header and
// stores it in the request context. Requests without a valid owner id
// are rejected before reaching the handler.
func WithOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(OwnerIDHeader)
		if raw == "" {
			http.Error(w, "missing "+OwnerIDHeader+" header", http.StatusUnauthorized)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid "+OwnerIDHeader+" header", http.StatusUnauthorized)
			return
		}

		ownerID := pgtype.UUID{Bytes: id, Valid: true}
		ctx := context.WithValue(r.Context(), OwnerIDContextKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOwnerID retrieves the owner id from the context. The second return
// value is false when the request carried no owner identity.
func GetOwnerID(ctx context.Context) (pgtype.UUID, bool) {
	id, ok := ctx.Value(OwnerIDContextKey).(pgtype.UUID)
	return id, ok
}
