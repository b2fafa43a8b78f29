// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abgdnv/productcatalog/internal/product/store"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create validates input and adds a new product to the catalog.
	// Returns a *errors.ValidationError for client-correctable input.
	Create(ctx context.Context, input ProductInput) (*ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	validator  *Validator
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, opts ...Option) *Service {
	s := &Service{
		repository: repo,
		validator:  NewValidator(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProductInput is the untyped create request as received on the wire.
// Fields may be absent or of any JSON type.
type ProductInput struct {
	Name     any `json:"name"`
	Category any `json:"category"`
}

// ProductCreateDto is the normalized create request.
type ProductCreateDto struct {
	Name     string `json:"name"     validate:"required,letters"`
	Category string `json:"category" validate:"required,letters"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
// Returns an empty slice if no products exist or error if the retrieval fails.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Create normalizes and validates input, then appends a new product stamped with
// the current time. Validation failures leave the store untouched.
func (s *Service) Create(ctx context.Context, input ProductInput) (*ProductDto, error) {
	dto := Normalize(input)
	if err := s.validator.Validate(dto); err != nil {
		return nil, err
	}

	p, err := s.repository.Append(ctx, dto.Name, dto.Category, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return toDto(p), nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		CreatedAt: product.CreatedAt,
	}
}
