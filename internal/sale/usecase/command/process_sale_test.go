package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/himapp/pos/internal/product/domain"
	productrepo "github.com/himapp/pos/internal/product/repository"
	"github.com/himapp/pos/internal/sale/repository"
	"github.com/himapp/pos/kafka"
	"github.com/himapp/pos/pkg/storage"
)

type capturingPublisher struct {
	events []kafka.SaleCompletedEvent
}

func (p *capturingPublisher) PublishSaleCompleted(_ context.Context, event kafka.SaleCompletedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func setupSale(t *testing.T) (productdomain.ProductRepository, *repository.CartStore, *capturingPublisher, *ProcessSaleHandler) {
	t.Helper()
	products := productrepo.NewBlobProductRepository(storage.NewMemoryStorage())
	carts := repository.NewCartStore()
	publisher := &capturingPublisher{}
	return products, carts, publisher, NewProcessSaleHandler(products, carts, publisher)
}

func createProduct(t *testing.T, repo productdomain.ProductRepository, p productdomain.Product) productdomain.Product {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func TestProcessSale_DecrementsStockAndClearsCart(t *testing.T) {
	products, carts, publisher, handler := setupSale(t)
	ctx := context.Background()

	widget := createProduct(t, products, productdomain.Product{
		Name: "Widget", SKU: "W1", Price: 10, Stock: 5, Categories: []string{"tools"},
	})

	cart := carts.Get("admin")
	cart.AddItem(widget)
	cart.AddItem(widget)

	receipt, err := handler.Handle(ctx, ProcessSaleCommand{Username: "admin"})
	require.NoError(t, err)

	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, 2, receipt.Lines[0].Quantity)
	assert.Equal(t, "20.00", receipt.TotalDKK.StringFixed(2))

	stored, err := products.FindByID(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)

	assert.True(t, carts.Get("admin").Empty(), "cart is discarded after checkout")

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, "admin", event.Username)
	assert.Equal(t, "20.00", event.TotalDKK)
	require.Len(t, event.Lines, 1)
	assert.Equal(t, widget.ID, event.Lines[0].ProductID)
}

func TestProcessSale_InsufficientStockRejectsWholeSale(t *testing.T) {
	products, carts, _, handler := setupSale(t)
	ctx := context.Background()

	widget := createProduct(t, products, productdomain.Product{
		Name: "Widget", SKU: "W1", Price: 10, Stock: 5,
	})
	gadget := createProduct(t, products, productdomain.Product{
		Name: "Gadget", SKU: "G1", Price: 30, Stock: 1,
	})

	cart := carts.Get("admin")
	cart.AddItem(widget)
	cart.AddItem(gadget)
	require.True(t, cart.UpdateQuantity(gadget.ID, 3))

	_, err := handler.Handle(ctx, ProcessSaleCommand{Username: "admin"})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Neither line was applied; the valid one stays put too.
	storedWidget, err := products.FindByID(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, storedWidget.Stock)

	storedGadget, err := products.FindByID(ctx, gadget.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, storedGadget.Stock)

	assert.False(t, carts.Get("admin").Empty(), "cart survives a failed checkout")
}

func TestProcessSale_DeletedProductRejectsSale(t *testing.T) {
	products, carts, _, handler := setupSale(t)
	ctx := context.Background()

	widget := createProduct(t, products, productdomain.Product{
		Name: "Widget", SKU: "W1", Price: 10, Stock: 5,
	})
	carts.Get("admin").AddItem(widget)

	require.NoError(t, products.Delete(ctx, widget.ID))

	_, err := handler.Handle(ctx, ProcessSaleCommand{Username: "admin"})
	assert.ErrorIs(t, err, productdomain.ErrProductNotFound)
}

func TestProcessSale_EmptyCart(t *testing.T) {
	_, _, publisher, handler := setupSale(t)

	_, err := handler.Handle(context.Background(), ProcessSaleCommand{Username: "admin"})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, publisher.events)
}

func TestProcessSale_NilPublisher(t *testing.T) {
	products := productrepo.NewBlobProductRepository(storage.NewMemoryStorage())
	carts := repository.NewCartStore()
	handler := NewProcessSaleHandler(products, carts, nil)
	ctx := context.Background()

	widget := createProduct(t, products, productdomain.Product{
		Name: "Widget", SKU: "W1", Price: 10, Stock: 5,
	})
	carts.Get("admin").AddItem(widget)

	receipt, err := handler.Handle(ctx, ProcessSaleCommand{Username: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "10.00", receipt.TotalDKK.StringFixed(2))
}
