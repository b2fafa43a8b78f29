// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"
)

// Product represents a product entity in the store.
type Product struct {
	ID        string
	Name      string
	Category  string
	CreatedAt time.Time
}

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Append assigns the next identifier and adds the product to the end of the sequence.
	Append(ctx context.Context, name, category string, createdAt time.Time) (*Product, error)
}
