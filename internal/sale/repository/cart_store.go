package repository

import (
	"sync"

	"github.com/himapp/pos/internal/sale/domain"
)

// CartStore holds transient carts in memory, one per username. Carts never
// reach storage; navigating away or restarting the process discards them.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

// NewCartStore creates an empty cart store
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*domain.Cart)}
}

// Get returns the cart for the given owner, creating it if needed
func (s *CartStore) Get(owner string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[owner]
	if !ok {
		cart = domain.NewCart()
		s.carts[owner] = cart
	}
	return cart
}

// Clear discards the owner's cart
func (s *CartStore) Clear(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, owner)
}
