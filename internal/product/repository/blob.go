package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/himapp/pos/internal/product/domain"
	"github.com/himapp/pos/pkg/storage"
)

// BlobProductRepository keeps the whole product collection as one serialized
// blob. Every operation loads the collection, mutates it in memory and writes
// it back in full. Concurrent writers follow last-write-wins, matching the
// storage contract.
type BlobProductRepository struct {
	store storage.Storage

	mu     sync.Mutex
	lastID int64
}

// NewBlobProductRepository creates a repository over the given blob storage
func NewBlobProductRepository(store storage.Storage) *BlobProductRepository {
	return &BlobProductRepository{store: store}
}

// flexFloat decodes a JSON number or a numeric JSON string. Collections
// written by older clients stored price and stock as strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", data, err)
	}
	*f = flexFloat(v)
	return nil
}

type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

// storedProduct is the persisted shape; the flex fields absorb legacy string
// numerics so domain products always carry real numbers.
type storedProduct struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Price      flexFloat `json:"price"`
	Stock      flexInt   `json:"stock"`
	Categories []string  `json:"categories"`
	Image      string    `json:"image"`
}

func (sp storedProduct) toDomain() domain.Product {
	return domain.Product{
		ID:         sp.ID,
		Name:       sp.Name,
		SKU:        sp.SKU,
		Price:      float64(sp.Price),
		Stock:      int(sp.Stock),
		Categories: sp.Categories,
		Image:      sp.Image,
	}
}

func (r *BlobProductRepository) load(ctx context.Context) ([]domain.Product, error) {
	data, err := r.store.Load(ctx, storage.ProductsKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []domain.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	var stored []storedProduct
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(stored))
	for _, sp := range stored {
		products = append(products, sp.toDomain())
	}
	return products, nil
}

func (r *BlobProductRepository) save(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	if err := r.store.Save(ctx, storage.ProductsKey, data); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

// nextID returns a millisecond-timestamp id, bumped forward when two creates
// land on the same tick.
func (r *BlobProductRepository) nextID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= r.lastID {
		now = r.lastID + 1
	}
	r.lastID = now
	return strconv.FormatInt(now, 10)
}

func (r *BlobProductRepository) Create(ctx context.Context, product *domain.Product) error {
	products, err := r.load(ctx)
	if err != nil {
		return err
	}

	product.ID = r.nextID()
	products = append(products, *product)
	return r.save(ctx, products)
}

func (r *BlobProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *BlobProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.load(ctx)
}

func (r *BlobProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	products, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID != id {
			continue
		}
		patch.Apply(&products[i])
		if err := r.save(ctx, products); err != nil {
			return nil, err
		}
		updated := products[i]
		return &updated, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *BlobProductRepository) Delete(ctx context.Context, id string) error {
	products, err := r.load(ctx)
	if err != nil {
		return err
	}

	// Delete on an absent id is a no-op.
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return r.save(ctx, kept)
}

func (r *BlobProductRepository) ReplaceAll(ctx context.Context, products []domain.Product) error {
	return r.save(ctx, products)
}

func (r *BlobProductRepository) Count(ctx context.Context) (int64, error) {
	products, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}
