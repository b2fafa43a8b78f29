package store

import (
	"context"
	"strconv"
	"sync"
	"time"
)

var _ ProductStore = (*InMemoryStore)(nil)

// InMemoryStore implements ProductStore using an in-process slice. Contents are lost on restart.
type InMemoryStore struct {
	mu       sync.RWMutex
	products []Product
	nextID   int
}

// NewInMemoryStore creates a store holding a copy of seed. Identifiers continue after
// the largest numeric seed id, or after len(seed) when that is larger.
func NewInMemoryStore(seed ...Product) *InMemoryStore {
	products := make([]Product, len(seed))
	copy(products, seed)

	last := len(products)
	for _, p := range products {
		if n, err := strconv.Atoi(p.ID); err == nil && n > last {
			last = n
		}
	}
	return &InMemoryStore{
		products: products,
		nextID:   last + 1,
	}
}

// SeedProducts returns the fixture loaded at startup.
func SeedProducts(createdAt time.Time) []Product {
	return []Product{
		{ID: "1", Name: "Laptop", Category: "Electronics", CreatedAt: createdAt},
		{ID: "2", Name: "Writing Desk", Category: "Furniture", CreatedAt: createdAt},
	}
}

// FindAll returns a copy of all products in insertion order.
func (s *InMemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list, nil
}

// Append assigns the next id and appends the product. Both happen under the write
// lock, so concurrent callers never share an id.
func (s *InMemoryStore) Append(_ context.Context, name, category string, createdAt time.Time) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:        strconv.Itoa(s.nextID),
		Name:      name,
		Category:  category,
		CreatedAt: createdAt,
	}
	s.nextID++
	s.products = append(s.products, product)

	return &product, nil
}

// Len returns the number of stored products.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
