package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	productdomain "github.com/himapp/pos/internal/product/domain"
	"github.com/himapp/pos/internal/sale/domain"
	"github.com/himapp/pos/internal/sale/repository"
	"github.com/himapp/pos/kafka"
	"github.com/himapp/pos/pkg/logger"
)

// ErrEmptyCart is returned when checkout runs against an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInsufficientStock is returned when any cart line exceeds live stock;
// the whole sale is rejected and nothing is written.
var ErrInsufficientStock = errors.New("insufficient stock")

// EventPublisher publishes sale events; a nil kafka.Publisher satisfies it as
// a no-op.
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error
}

// ProcessSaleCommand represents the command to commit the owner's cart
type ProcessSaleCommand struct {
	Username string
}

// Receipt summarizes a committed sale
type Receipt struct {
	Lines    []domain.CartItem `json:"lines"`
	TotalDKK decimal.Decimal   `json:"total_dkk"`
	TotalEUR decimal.Decimal   `json:"total_eur"`
}

// ProcessSaleHandler handles the sale checkout command
type ProcessSaleHandler struct {
	products  productdomain.ProductRepository
	carts     *repository.CartStore
	publisher EventPublisher
}

// NewProcessSaleHandler creates a new process sale handler
func NewProcessSaleHandler(products productdomain.ProductRepository, carts *repository.CartStore, publisher EventPublisher) *ProcessSaleHandler {
	return &ProcessSaleHandler{products: products, carts: carts, publisher: publisher}
}

// Handle commits the sale transactionally: the collection is loaded once,
// every line is validated against live stock, all decrements are applied and
// the collection is written back in a single ReplaceAll. A failure anywhere
// before the write leaves stock untouched.
func (h *ProcessSaleHandler) Handle(ctx context.Context, cmd ProcessSaleCommand) (*Receipt, error) {
	if cmd.Username == "" {
		return nil, fmt.Errorf("username is required")
	}

	cart := h.carts.Get(cmd.Username)
	if cart.Empty() {
		return nil, ErrEmptyCart
	}

	products, err := h.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[string]*productdomain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Validate every line before touching any stock.
	items := cart.Items()
	for _, item := range items {
		stored, ok := byID[item.Product.ID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", item.Product.ID, productdomain.ErrProductNotFound)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("product %s: quantity must be positive", item.Product.ID)
		}
		if stored.Stock < item.Quantity {
			return nil, fmt.Errorf("product %s (stock %d, requested %d): %w",
				stored.Name, stored.Stock, item.Quantity, ErrInsufficientStock)
		}
	}

	for _, item := range items {
		byID[item.Product.ID].Stock -= item.Quantity
	}

	if err := h.products.ReplaceAll(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	receipt := &Receipt{
		Lines:    items,
		TotalDKK: cart.Total(),
		TotalEUR: cart.TotalEUR(),
	}
	h.carts.Clear(cmd.Username)

	h.publishEvent(ctx, cmd.Username, receipt)

	return receipt, nil
}

// publishEvent is fire-and-forget: the stock write already committed.
func (h *ProcessSaleHandler) publishEvent(ctx context.Context, username string, receipt *Receipt) {
	if h.publisher == nil {
		return
	}

	lines := make([]kafka.SaleLine, 0, len(receipt.Lines))
	for _, item := range receipt.Lines {
		lines = append(lines, kafka.SaleLine{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			SKU:       item.Product.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
		})
	}

	event := kafka.SaleCompletedEvent{
		Username: username,
		Lines:    lines,
		TotalDKK: receipt.TotalDKK.StringFixed(2),
		TotalEUR: receipt.TotalEUR.StringFixed(2),
	}

	if err := h.publisher.PublishSaleCompleted(ctx, event); err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to publish sale event")
	}
}
