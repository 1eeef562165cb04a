package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/himapp/pos/internal/product/domain"
)

// Sortable catalog fields
const (
	SortByName  = "name"
	SortBySKU   = "sku"
	SortByPrice = "price"
	SortByStock = "stock"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "All"

// ListProductsQuery represents the catalog listing query
type ListProductsQuery struct {
	Search     string // free text, matched against name, sku and categories
	Category   string // empty or "All" disables the filter
	SortBy     string // defaults to name
	Descending bool
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesCategory(p, query.Category) && matchesSearch(p, query.Search) {
			filtered = append(filtered, p)
		}
	}

	if err := sortProducts(filtered, query.SortBy, query.Descending); err != nil {
		return nil, err
	}
	return filtered, nil
}

func matchesCategory(p domain.Product, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return p.HasCategory(category)
}

// matchesSearch is a case-insensitive substring match against name, sku or
// any category.
func matchesSearch(p domain.Product, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.SKU), term) {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, field string, descending bool) error {
	if field == "" {
		field = SortByName
	}

	var less func(a, b domain.Product) bool
	switch field {
	case SortByName:
		less = func(a, b domain.Product) bool { return a.Name < b.Name }
	case SortBySKU:
		less = func(a, b domain.Product) bool { return a.SKU < b.SKU }
	case SortByPrice:
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case SortByStock:
		less = func(a, b domain.Product) bool { return a.Stock < b.Stock }
	default:
		return fmt.Errorf("unknown sort field %q", field)
	}

	sort.SliceStable(products, func(i, j int) bool {
		if descending {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
	return nil
}
