package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himapp/pos/internal/product/domain"
	"github.com/himapp/pos/internal/product/repository"
	"github.com/himapp/pos/pkg/storage"
)

func seedCatalog(t *testing.T) domain.ProductRepository {
	t.Helper()
	repo := repository.NewBlobProductRepository(storage.NewMemoryStorage())
	ctx := context.Background()

	products := []domain.Product{
		{Name: "Hammer", SKU: "T-100", Price: 79, Stock: 12, Categories: []string{"tools"}},
		{Name: "Screwdriver", SKU: "T-200", Price: 45, Stock: 30, Categories: []string{"tools", "hand tools"}},
		{Name: "Notebook", SKU: "S-010", Price: 25, Stock: 100, Categories: []string{"stationery"}},
		{Name: "Desk Lamp", SKU: "L-001", Price: 199, Stock: 4, Categories: nil},
	}
	for i := range products {
		require.NoError(t, repo.Create(ctx, &products[i]))
	}
	return repo
}

func names(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestListProducts_NoFilterSortsByNameAscending(t *testing.T) {
	handler := NewListProductsHandler(seedCatalog(t))

	products, err := handler.Handle(context.Background(), ListProductsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Desk Lamp", "Hammer", "Notebook", "Screwdriver"}, names(products))
}

func TestListProducts_SortDirections(t *testing.T) {
	handler := NewListProductsHandler(seedCatalog(t))
	ctx := context.Background()

	byPrice, err := handler.Handle(ctx, ListProductsQuery{SortBy: SortByPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{"Notebook", "Screwdriver", "Hammer", "Desk Lamp"}, names(byPrice))

	byPriceDesc, err := handler.Handle(ctx, ListProductsQuery{SortBy: SortByPrice, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Desk Lamp", "Hammer", "Screwdriver", "Notebook"}, names(byPriceDesc))

	byStock, err := handler.Handle(ctx, ListProductsQuery{SortBy: SortByStock})
	require.NoError(t, err)
	assert.Equal(t, []string{"Desk Lamp", "Hammer", "Screwdriver", "Notebook"}, names(byStock))

	bySKU, err := handler.Handle(ctx, ListProductsQuery{SortBy: SortBySKU})
	require.NoError(t, err)
	assert.Equal(t, []string{"Desk Lamp", "Notebook", "Hammer", "Screwdriver"}, names(bySKU))
}

func TestListProducts_UnknownSortField(t *testing.T) {
	handler := NewListProductsHandler(seedCatalog(t))

	_, err := handler.Handle(context.Background(), ListProductsQuery{SortBy: "image"})
	assert.Error(t, err)
}

func TestListProducts_SearchMatchesNameSKUAndCategories(t *testing.T) {
	handler := NewListProductsHandler(seedCatalog(t))
	ctx := context.Background()

	byName, err := handler.Handle(ctx, ListProductsQuery{Search: "hammer"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hammer"}, names(byName))

	bySKU, err := handler.Handle(ctx, ListProductsQuery{Search: "s-010"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Notebook"}, names(bySKU))

	byCategory, err := handler.Handle(ctx, ListProductsQuery{Search: "stationery"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Notebook"}, names(byCategory))
}

func TestListProducts_CategoryFilter(t *testing.T) {
	handler := NewListProductsHandler(seedCatalog(t))
	ctx := context.Background()

	// Two products share "tools"; the filter yields exactly those two with no
	// text filter in play.
	tools, err := handler.Handle(ctx, ListProductsQuery{Category: "tools"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hammer", "Screwdriver"}, names(tools))

	// "All" and empty are equivalent to no category filter.
	all, err := handler.Handle(ctx, ListProductsQuery{Category: CategoryAll})
	require.NoError(t, err)
	unfiltered, err := handler.Handle(ctx, ListProductsQuery{})
	require.NoError(t, err)
	assert.Equal(t, names(unfiltered), names(all))
}

func TestListProducts_CombinedFilters(t *testing.T) {
	handler := NewListProductsHandler(seedCatalog(t))

	products, err := handler.Handle(context.Background(), ListProductsQuery{
		Search:   "t-",
		Category: "hand tools",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screwdriver"}, names(products))
}

func TestListCategories(t *testing.T) {
	handler := NewListCategoriesHandler(seedCatalog(t))

	categories, err := handler.Handle(context.Background(), ListCategoriesQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "tools", "hand tools", "stationery"}, categories)
}

func TestListCategories_EmptyCatalog(t *testing.T) {
	repo := repository.NewBlobProductRepository(storage.NewMemoryStorage())
	handler := NewListCategoriesHandler(repo)

	categories, err := handler.Handle(context.Background(), ListCategoriesQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"All"}, categories)
}
