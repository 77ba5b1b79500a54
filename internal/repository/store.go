package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getStore = `
SELECT id, owner_id, slug, name, contact_number_enc, created_at, updated_at
FROM stores
WHERE id = $1
`

// GetStore retrieves a store row by id.
func (q *Queries) GetStore(ctx context.Context, id pgtype.UUID) (Store, error) {
	row := q.db.QueryRow(ctx, getStore, id)
	var s Store
	err := row.Scan(&s.ID, &s.OwnerID, &s.Slug, &s.Name, &s.ContactNumberEnc, &s.CreatedAt, &s.UpdatedAt)
	return s, classify(err)
}

const getStoreBySlug = `
SELECT id, owner_id, slug, name, contact_number_enc, created_at, updated_at
FROM stores
WHERE slug = $1
`

// GetStoreBySlug retrieves a store row by its public slug.
func (q *Queries) GetStoreBySlug(ctx context.Context, slug string) (Store, error) {
	row := q.db.QueryRow(ctx, getStoreBySlug, slug)
	var s Store
	err := row.Scan(&s.ID, &s.OwnerID, &s.Slug, &s.Name, &s.ContactNumberEnc, &s.CreatedAt, &s.UpdatedAt)
	return s, classify(err)
}
