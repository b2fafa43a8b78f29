// Package e2e provides end-to-end tests for the product catalog.
// The full router (request id, logging, recovery, CORS, metrics and the product routes)
// runs in an `httptest.Server` backed by a freshly seeded in-memory store for every test,
// and is driven through the real catalog client and view model.
// It uses `testify/suite` for structure and lifecycle management (`SetupSuite`, `SetupTest`, `TearDownTest`).
package e2e

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/productcatalog/internal/client"
	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/product/app"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "PRODUCT_SVC_SKIP_E2E_TESTS"

const (
	msgRequired     = "שם וקטגוריה נדרשים"
	msgInvalidChars = "שם וקטגוריה חייבים להכיל אותיות בלבד"
)

// ProductServiceE2ESuite is a test suite for end-to-end tests of the catalog API.
type ProductServiceE2ESuite struct {
	suite.Suite
	appCfg *config.Config
	logger *slog.Logger
	ctx    context.Context

	store  *store.InMemoryStore // Store behind the server of the current test
	server *httptest.Server     // HTTP server of the current test
	client *client.Client       // Catalog client pointed at server
}

// testConfig creates a configuration for the catalog application.
func testConfig() *config.Config {
	var cfg config.Config

	cfg.HTTPServer.Port = 0 // httptest.Server will assign a random port
	cfg.HTTPServer.MaxHeaderBytes = 1 << 20
	cfg.HTTPServer.Timeout.Read = 10 * time.Second
	cfg.HTTPServer.Timeout.Write = 10 * time.Second
	cfg.HTTPServer.Timeout.Idle = time.Minute
	cfg.HTTPServer.Timeout.ReadHeader = 5 * time.Second
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.CORS.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.CORS.AllowedHeaders = []string{"Content-Type"}
	cfg.Catalog.Seed = true

	return &cfg
}

func (s *ProductServiceE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s.appCfg = testConfig()
}

// SetupTest starts a server over a freshly seeded store.
func (s *ProductServiceE2ESuite) SetupTest() {
	s.store = app.NewStore(s.appCfg.Catalog, time.Now())
	deps := app.SetupDependencies(s.appCfg, s.store, prometheus.NewRegistry(), s.logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.client = client.New(s.server.URL+"/api", client.WithHTTPClient(s.server.Client()))
}

func (s *ProductServiceE2ESuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

// restart replaces the current server and store with fresh ones.
func (s *ProductServiceE2ESuite) restart() {
	s.TearDownTest()
	s.SetupTest()
}

func TestProductServiceE2E(t *testing.T) {
	// Skip E2E tests if the environment variable is set
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(ProductServiceE2ESuite))
}

// --------------------------------------------------------------
// ---------------------- E2E test methods ----------------------
// --------------------------------------------------------------

func (s *ProductServiceE2ESuite) TestFindAll_Seeded_E2E() {
	// when
	products, err := s.client.ListProducts(s.ctx)

	// then
	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.Equal("1", products[0].ID)
	s.Equal("Laptop", products[0].Name)
	s.Equal("Electronics", products[0].Category)
	s.Equal("2", products[1].ID)
	s.Equal("Writing Desk", products[1].Name)
	s.Equal("Furniture", products[1].Category)
}

func (s *ProductServiceE2ESuite) TestFindAll_Idempotent_E2E() {
	first, err := s.client.ListProducts(s.ctx)
	s.Require().NoError(err)

	second, err := s.client.ListProducts(s.ctx)
	s.Require().NoError(err)

	s.Equal(first, second)
}

// TestCreateProduct_E2E tests the creation of products with various payloads.
func (s *ProductServiceE2ESuite) TestCreateProduct_E2E() {
	testCases := []struct {
		name            string
		productName     string
		category        string
		expectedStatus  int
		expectedMessage string
		expectedLen     int
	}{
		{
			name:        "Create Product - Valid Product",
			productName: "Phone",
			category:    "Electronics",
			expectedLen: 3,
		},
		{
			name:        "Create Product - Hebrew",
			productName: "מחשב",
			category:    "אלקטרוניקה",
			expectedLen: 3,
		},
		{
			name:            "Create Product - Empty Name",
			productName:     "",
			category:        "Tools",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: msgRequired,
			expectedLen:     2,
		},
		{
			name:            "Create Product - Whitespace Category",
			productName:     "Phone",
			category:        "   ",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: msgRequired,
			expectedLen:     2,
		},
		{
			name:            "Create Product - Digits",
			productName:     "Desk99",
			category:        "Furniture",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: msgInvalidChars,
			expectedLen:     2,
		},
		{
			name:            "Create Product - Inner Space",
			productName:     "Writing Desk",
			category:        "Furniture",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: msgInvalidChars,
			expectedLen:     2,
		},
		{
			name:            "Create Product - Punctuation",
			productName:     "Phone!",
			category:        "Electronics",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: msgInvalidChars,
			expectedLen:     2,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.restart()

			// when
			product, err := s.client.CreateProduct(s.ctx, tc.productName, tc.category)

			// then
			if tc.expectedStatus != 0 {
				var apiErr *client.APIError
				s.Require().ErrorAs(err, &apiErr)
				s.Equal(tc.expectedStatus, apiErr.Status)
				s.Equal(tc.expectedMessage, apiErr.Message)
				s.Nil(product)
			} else {
				s.Require().NoError(err)
				s.Equal("3", product.ID)
				s.Equal(tc.productName, product.Name)
				s.Equal(tc.category, product.Category)
				_, parseErr := time.Parse(time.RFC3339Nano, product.CreatedAt)
				s.NoError(parseErr)
			}

			products, err := s.client.ListProducts(s.ctx)
			s.Require().NoError(err)
			s.Len(products, tc.expectedLen)
			s.Equal(tc.expectedLen, s.store.Len())
		})
	}
}

func (s *ProductServiceE2ESuite) TestCreateProduct_MalformedBody_E2E() {
	testCases := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"name":`},
		{name: "array", body: `[]`},
		{name: "trailing garbage", body: `{"name":"Phone","category":"Electronics"}xyz`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.server.URL+"/api/products", strings.NewReader(tc.body))
			s.Require().NoError(err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.server.Client().Do(req)
			s.Require().NoError(err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			s.Require().NoError(err)

			s.Equal(http.StatusBadRequest, resp.StatusCode)
			s.JSONEq(`{"error":"Invalid request body"}`, string(body))
			s.Equal(2, s.store.Len())
		})
	}
}

func (s *ProductServiceE2ESuite) TestCreateProduct_EmptyBody_E2E() {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.server.URL+"/api/products", http.NoBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"error":"`+msgRequired+`"}`, string(body))
	s.Equal(2, s.store.Len())
}

func (s *ProductServiceE2ESuite) TestCreateProduct_SequentialIDs_E2E() {
	seen := map[string]bool{"1": true, "2": true}
	for _, name := range []string{"Phone", "Tablet", "Camera"} {
		product, err := s.client.CreateProduct(s.ctx, name, "Electronics")
		s.Require().NoError(err)
		s.False(seen[product.ID], "duplicate id %s", product.ID)
		seen[product.ID] = true
	}
	s.Equal(5, s.store.Len())
}

func (s *ProductServiceE2ESuite) TestCreateProduct_ConcurrentIDs_E2E() {
	const n = 20
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			product, err := s.client.CreateProduct(s.ctx, "Phone", "Electronics")
			if err == nil {
				ids <- product.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	unique := map[string]struct{}{}
	for id := range ids {
		unique[id] = struct{}{}
	}
	s.Len(unique, n)
	s.Equal(n+2, s.store.Len())
}

func (s *ProductServiceE2ESuite) TestRoutes_E2E() {
	testCases := []struct {
		name         string
		method       string
		path         string
		expectedCode int
	}{
		{name: "unsupported method", method: http.MethodDelete, path: "/api/products", expectedCode: http.StatusMethodNotAllowed},
		{name: "trailing slash", method: http.MethodGet, path: "/api/products/", expectedCode: http.StatusNotFound},
		{name: "item route", method: http.MethodGet, path: "/api/products/1", expectedCode: http.StatusNotFound},
		{name: "metrics not on api listener", method: http.MethodGet, path: "/metrics", expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req, err := http.NewRequestWithContext(s.ctx, tc.method, s.server.URL+tc.path, nil)
			s.Require().NoError(err)
			resp, err := s.server.Client().Do(req)
			s.Require().NoError(err)
			_ = resp.Body.Close()
			s.Equal(tc.expectedCode, resp.StatusCode)
		})
	}
}

func (s *ProductServiceE2ESuite) TestCORS_E2E() {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodOptions, s.server.URL+"/api/products", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	_ = resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
	s.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func (s *ProductServiceE2ESuite) TestView_E2E() {
	// given
	view := client.NewView(s.client, client.WithLocation(time.UTC))
	view.Mount(s.ctx)
	require.Empty(s.T(), view.Banner())

	// when
	view.SetName("  Phone ")
	view.SetCategory("Electronics")
	view.Submit(s.ctx)
	view.SetName("Desk99")
	view.SetCategory("Furniture")
	view.Submit(s.ctx)

	// then
	var out bytes.Buffer
	s.Require().NoError(view.Render(&out))
	s.Equal("Error adding product: "+msgInvalidChars, view.Banner())
	s.Len(view.Products(), 3)
	s.Equal(client.Form{Name: "Desk99", Category: "Furniture"}, view.Form())
	s.Contains(out.String(), "Phone\n  Category: Electronics\n  Created: ")
	s.NotContains(out.String(), "Invalid Date")
}
