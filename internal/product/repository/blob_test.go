package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himapp/pos/internal/product/domain"
	"github.com/himapp/pos/pkg/storage"
)

func newTestRepo(t *testing.T) (*BlobProductRepository, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	return NewBlobProductRepository(store), store
}

func TestBlobRepository_CreateAndFindByID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	product := &domain.Product{
		Name:       "Widget",
		SKU:        "W1",
		Price:      10,
		Stock:      5,
		Categories: []string{"tools"},
	}
	require.NoError(t, repo.Create(ctx, product))
	require.NotEmpty(t, product.ID)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)
	assert.Equal(t, "W1", found.SKU)
	assert.Equal(t, 10.0, found.Price)
	assert.Equal(t, 5, found.Stock)
	assert.Equal(t, []string{"tools"}, found.Categories)
}

func TestBlobRepository_CreateAssignsDistinctIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p := &domain.Product{Name: "p"}
		require.NoError(t, repo.Create(ctx, p))
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestBlobRepository_CoercesLegacyStringNumerics(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	// Collections written by older clients carried price and stock as strings.
	legacy := `[{"id":"1700000000000","name":"Widget","sku":"W1","price":"10.50","stock":"5","categories":["tools"],"image":""}]`
	require.NoError(t, store.Save(ctx, storage.ProductsKey, []byte(legacy)))

	found, err := repo.FindByID(ctx, "1700000000000")
	require.NoError(t, err)
	assert.Equal(t, 10.50, found.Price)
	assert.Equal(t, 5, found.Stock)

	// A rewrite normalizes the blob to real numbers.
	require.NoError(t, repo.ReplaceAll(ctx, []domain.Product{*found}))
	data, err := store.Load(ctx, storage.ProductsKey)
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 10.50, raw[0]["price"])
	assert.Equal(t, 5.0, raw[0]["stock"])
}

func TestBlobRepository_UpdateMergesPatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	product := &domain.Product{Name: "Widget", SKU: "W1", Price: 10, Stock: 5}
	require.NoError(t, repo.Create(ctx, product))

	newPrice := 12.5
	updated, err := repo.Update(ctx, product.ID, domain.ProductPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "Widget", updated.Name, "unpatched fields stay put")
	assert.Equal(t, 5, updated.Stock)
}

func TestBlobRepository_UpdateMissingIDFailsUnchanged(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	product := &domain.Product{Name: "Widget", Price: 10, Stock: 5}
	require.NoError(t, repo.Create(ctx, product))

	name := "Gadget"
	_, err := repo.Update(ctx, "no-such-id", domain.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	// The stored collection is unchanged afterward.
	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
}

func TestBlobRepository_DeleteMissingIDIsNoop(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	product := &domain.Product{Name: "Widget"}
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, repo.Delete(ctx, "no-such-id"))

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestBlobRepository_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	a := &domain.Product{Name: "A"}
	b := &domain.Product{Name: "B"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.Delete(ctx, a.ID))

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "B", products[0].Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBlobRepository_EmptyStorage(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = repo.FindByID(ctx, "anything")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
