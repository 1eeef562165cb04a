package command

import (
	"context"
	"fmt"

	"github.com/himapp/pos/internal/product/domain"
)

// UpdateProductCommand represents the command to update a product. Nil fields
// are left unchanged.
type UpdateProductCommand struct {
	ID    string
	Patch domain.ProductPatch
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	// Validation
	if cmd.ID == "" {
		return nil, fmt.Errorf("invalid product id")
	}
	if cmd.Patch.Price != nil && *cmd.Patch.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	if cmd.Patch.Stock != nil && *cmd.Patch.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative")
	}

	product, err := h.repo.Update(ctx, cmd.ID, cmd.Patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
