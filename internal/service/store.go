package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lapakgo/lapak/internal/crypto"
	"github.com/lapakgo/lapak/internal/domain"
	"github.com/lapakgo/lapak/internal/repository"
)

// storeDirectory implements domain.StoreDirectory, decrypting the contact
// number on the way out so the notification formatter can use it.
type storeDirectory struct {
	store     repository.Querier
	encryptor crypto.Encryptor
}

// NewStoreDirectory creates the read-only store resolver.
func NewStoreDirectory(store repository.Querier, encryptor crypto.Encryptor) domain.StoreDirectory {
	return &storeDirectory{store: store, encryptor: encryptor}
}

// GetStore retrieves a store by id.
func (d *storeDirectory) GetStore(ctx context.Context, id pgtype.UUID) (*domain.Store, error) {
	row, err := repository.Read(ctx, func() (repository.Store, error) {
		return d.store.GetStore(ctx, id)
	})
	return d.hydrate(row, err)
}

// GetStoreBySlug retrieves a store by its public slug.
func (d *storeDirectory) GetStoreBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	row, err := repository.Read(ctx, func() (repository.Store, error) {
		return d.store.GetStoreBySlug(ctx, slug)
	})
	return d.hydrate(row, err)
}

func (d *storeDirectory) hydrate(row repository.Store, err error) (*domain.Store, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStoreNotFound
	}
	if err != nil {
		return nil, storeErr(err, "store.get", "failed to load store")
	}

	store := &domain.Store{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Slug:      row.Slug,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.ContactNumberEnc) > 0 {
		plain, err := d.encryptor.Decrypt(row.ContactNumberEnc)
		if err != nil {
			return nil, domain.Internal(err, "store.get", "failed to decrypt contact number")
		}
		store.ContactNumber = string(plain)
	}
	return store, nil
}
