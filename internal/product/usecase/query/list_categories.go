package query

import (
	"context"
	"fmt"

	"github.com/himapp/pos/internal/product/domain"
)

// ListCategoriesQuery represents the query for the catalog category options
type ListCategoriesQuery struct{}

// ListCategoriesHandler handles list categories query
type ListCategoriesHandler struct {
	repo domain.ProductRepository
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(repo domain.ProductRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

// Handle returns the distinct categories across the collection, in first-seen
// order, prefixed with the "All" sentinel.
func (h *ListCategoriesHandler) Handle(ctx context.Context, query ListCategoriesQuery) ([]string, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	seen := make(map[string]bool)
	categories := []string{CategoryAll}
	for _, p := range products {
		for _, c := range p.Categories {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			categories = append(categories, c)
		}
	}
	return categories, nil
}
