package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/himapp/pos/internal/user/domain"
	"github.com/himapp/pos/pkg/storage"
)

// StorageSessionRepository persists the session username as a blob under its
// own storage key.
type StorageSessionRepository struct {
	store storage.Storage
}

// NewStorageSessionRepository creates a session repository over blob storage
func NewStorageSessionRepository(store storage.Storage) *StorageSessionRepository {
	return &StorageSessionRepository{store: store}
}

func (r *StorageSessionRepository) Current(ctx context.Context) (domain.Session, error) {
	data, err := r.store.Load(ctx, storage.SessionKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return domain.Session{Username: string(data)}, nil
}

func (r *StorageSessionRepository) Save(ctx context.Context, session domain.Session) error {
	if err := r.store.Save(ctx, storage.SessionKey, []byte(session.Username)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *StorageSessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, storage.SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
