// Package storage provides the blob persistence capability used as the
// application database. Each key holds one opaque serialized value; callers
// read, modify and rewrite whole blobs. Last write wins, no locking.
package storage

import (
	"context"
	"errors"
)

// Storage keys used by the application.
const (
	ProductsKey = "himapp_products"
	SessionKey  = "himapp_user"
)

// ErrKeyNotFound is returned when a key has never been written.
var ErrKeyNotFound = errors.New("storage: key not found")

// Storage defines the contract for blob persistence
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
