// Package handler provides HTTP handlers for product-related operations.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	producterrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/abgdnv/productcatalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ProductsPath is the collection route for products.
const ProductsPath = "/api/products"

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

const (
	msgInvalidBody  = "Invalid request body"
	msgListFailed   = "Failed to retrieve products"
	msgCreateFailed = "Failed to add product"
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new product Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the product routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(ProductsPath, h.FindAll)
	r.Post(ProductsPath, h.Create)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.DebugContext(ctx, "Received request to list products")
	list, err := h.service.FindAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, msgListFailed)
		return
	}
	h.logger.DebugContext(ctx, "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	input, err := decodeInput(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, msgInvalidBody)
		return
	}
	h.logger.DebugContext(ctx, "Received request to create product", "product", input)

	created, err := h.service.Create(ctx, input)
	if err != nil {
		var validationErr *producterrors.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.WarnContext(ctx, "Validation error occurred", "field", validationErr.Field, "error", validationErr)
			web.RespondError(w, h.logger, http.StatusBadRequest, validationErr.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Error creating product", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, msgCreateFailed)
		return
	}
	h.logger.InfoContext(ctx, "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// decodeInput reads exactly one JSON value. An empty body is an empty input, so the
// caller gets the required-fields message; anything after the value is rejected.
func decodeInput(body io.Reader) (service.ProductInput, error) {
	var input service.ProductInput
	dec := json.NewDecoder(body)
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return service.ProductInput{}, nil
		}
		return service.ProductInput{}, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return service.ProductInput{}, errTrailingData
	}
	return input, nil
}
