// Package e2e provides end-to-end tests for the cart service.
// The whole HTTP surface runs in an `httptest.Server` wired exactly as in
// production, with two substitutions: the snapshot store is the in-memory
// implementation and the catalog is a stub HTTP server, so the suite
// exercises the full request path (routing, validation, cart logic,
// snapshot commit) without external infrastructure.
//
// Test coverage includes:
//   - Happy path add/remove/update flows over HTTP.
//   - Stock-ceiling rejections and their HTTP status mapping.
//   - Cart state surviving rejected operations unchanged.
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/gocart/internal/app"
	"github.com/abgdnv/gocart/internal/cart"
	"github.com/abgdnv/gocart/internal/catalog"
	"github.com/abgdnv/gocart/internal/notify"
	"github.com/abgdnv/gocart/internal/store"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "CART_SVC_SKIP_E2E_TESTS"

// cartURL is the base URL for the cart API.
const cartURL = "/api/v1/cart"

// catalogStub serves the catalog API from in-memory fixtures.
type catalogStub struct {
	stock    map[int64]int32
	products map[int64]cart.ProductInfo
}

func (c *catalogStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id int64
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/v1/stock/"):
			_, _ = fmt.Sscanf(r.URL.Path, "/api/v1/stock/%d", &id)
			amount, ok := c.stock[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "amount": amount})
		case strings.HasPrefix(r.URL.Path, "/api/v1/products/"):
			_, _ = fmt.Sscanf(r.URL.Path, "/api/v1/products/%d", &id)
			p, ok := c.products[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": p.ID, "name": p.Name, "price": p.Price, "image_url": p.ImageURL})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

// CartServiceE2ESuite is a test suite for end-to-end tests of the cart service.
type CartServiceE2ESuite struct {
	suite.Suite
	catalogServer *httptest.Server // Stub catalog serving stock and product fixtures
	server        *httptest.Server // HTTP server for the cart service under test
	httpClient    *http.Client     // HTTP client for making requests to the server
	stub          *catalogStub     // Mutable stock/product fixtures
	snapshots     cart.SnapshotStore
	logger        *slog.Logger
	ctx           context.Context
}

func (s *CartServiceE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s.httpClient = &http.Client{Timeout: 10 * time.Second}
}

// SetupTest rebuilds the whole application for each test so every test
// starts from an empty cart and fresh fixtures.
func (s *CartServiceE2ESuite) SetupTest() {
	s.stub = &catalogStub{
		stock: map[int64]int32{1: 5, 2: 2},
		products: map[int64]cart.ProductInfo{
			1: {ID: 1, Name: "Sneaker", Price: 14990, ImageURL: "https://img.example/1.png"},
			2: {ID: 2, Name: "Boot", Price: 25990, ImageURL: "https://img.example/2.png"},
		},
	}
	s.catalogServer = httptest.NewServer(s.stub.handler())

	s.snapshots = store.NewInMemoryStore()
	catalogClient := catalog.NewClient(s.catalogServer.URL, 5*time.Second, s.logger)
	notifier := notify.NewLogNotifier(s.logger)

	cartService, err := cart.NewService(s.ctx, catalogClient, catalogClient, s.snapshots, notifier, s.logger)
	require.NoError(s.T(), err, "Failed to create cart service")

	deps := &app.Dependencies{CartService: cartService, Logger: s.logger}
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
}

func (s *CartServiceE2ESuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
	if s.catalogServer != nil {
		s.catalogServer.Close()
	}
}

// TestCartServiceE2E runs the cart service end-to-end tests.
func TestCartServiceE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(CartServiceE2ESuite))
}

// do issues a request against the service under test and decodes the cart from the response.
func (s *CartServiceE2ESuite) do(method, path, body string) (int, []cart.Item) {
	s.T().Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, reader)
	require.NoError(s.T(), err)
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	var items []cart.Item
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&items))
	return resp.StatusCode, items
}

func (s *CartServiceE2ESuite) getCart() []cart.Item {
	s.T().Helper()
	status, items := s.do(http.MethodGet, cartURL, "")
	require.Equal(s.T(), http.StatusOK, status)
	return items
}

func (s *CartServiceE2ESuite) TestAddProductTwiceAccumulatesOneLine() {
	// when: the same product is added twice
	status, _ := s.do(http.MethodPost, cartURL+"/items/1", "")
	require.Equal(s.T(), http.StatusOK, status)
	status, items := s.do(http.MethodPost, cartURL+"/items/1", "")

	// then: one line, amount 2, full metadata from the catalog
	require.Equal(s.T(), http.StatusOK, status)
	require.Len(s.T(), items, 1)
	require.Equal(s.T(), int64(1), items[0].ID)
	require.Equal(s.T(), "Sneaker", items[0].Name)
	require.Equal(s.T(), int64(14990), items[0].Price)
	require.Equal(s.T(), int32(2), items[0].Amount)
}

func (s *CartServiceE2ESuite) TestAddBeyondStockIsRejected() {
	// given: product 2 has stock 2
	for range 2 {
		status, _ := s.do(http.MethodPost, cartURL+"/items/2", "")
		require.Equal(s.T(), http.StatusOK, status)
	}
	// when: a third add exceeds stock
	status, _ := s.do(http.MethodPost, cartURL+"/items/2", "")
	// then: 409 and the cart is unchanged
	require.Equal(s.T(), http.StatusConflict, status)
	items := s.getCart()
	require.Len(s.T(), items, 1)
	require.Equal(s.T(), int32(2), items[0].Amount)
}

func (s *CartServiceE2ESuite) TestRemoveProduct() {
	// given
	status, _ := s.do(http.MethodPost, cartURL+"/items/1", "")
	require.Equal(s.T(), http.StatusOK, status)
	// when
	status, items := s.do(http.MethodDelete, cartURL+"/items/1", "")
	// then
	require.Equal(s.T(), http.StatusOK, status)
	require.Empty(s.T(), items)
	// and the snapshot reflects the empty cart
	loaded, err := s.snapshots.Load(s.ctx)
	require.NoError(s.T(), err)
	require.Empty(s.T(), loaded)
}

func (s *CartServiceE2ESuite) TestRemoveAbsentProductReturnsNotFound() {
	status, _ := s.do(http.MethodDelete, cartURL+"/items/99", "")
	require.Equal(s.T(), http.StatusNotFound, status)
	require.Empty(s.T(), s.getCart())
}

func (s *CartServiceE2ESuite) TestUpdateAmountWithinStock() {
	// given
	status, _ := s.do(http.MethodPost, cartURL+"/items/1", "")
	require.Equal(s.T(), http.StatusOK, status)
	// when
	status, items := s.do(http.MethodPut, cartURL+"/items/1", `{"amount": 3}`)
	// then
	require.Equal(s.T(), http.StatusOK, status)
	require.Len(s.T(), items, 1)
	require.Equal(s.T(), int32(3), items[0].Amount)
	// and the snapshot mirrors the new state
	loaded, err := s.snapshots.Load(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), items, loaded)
}

func (s *CartServiceE2ESuite) TestUpdateAmountBeyondStockIsRejected() {
	// given
	status, _ := s.do(http.MethodPost, cartURL+"/items/1", "")
	require.Equal(s.T(), http.StatusOK, status)
	// when: stock for product 1 is 5
	status, _ = s.do(http.MethodPut, cartURL+"/items/1", `{"amount": 6}`)
	// then
	require.Equal(s.T(), http.StatusConflict, status)
	items := s.getCart()
	require.Equal(s.T(), int32(1), items[0].Amount)
}

func (s *CartServiceE2ESuite) TestUpdateAmountZeroIsRejected() {
	// given
	status, _ := s.do(http.MethodPost, cartURL+"/items/1", "")
	require.Equal(s.T(), http.StatusOK, status)
	// when
	status, _ = s.do(http.MethodPut, cartURL+"/items/1", `{"amount": 0}`)
	// then
	require.Equal(s.T(), http.StatusBadRequest, status)
	require.Equal(s.T(), int32(1), s.getCart()[0].Amount)
}

func (s *CartServiceE2ESuite) TestCartSurvivesCatalogOutage() {
	// given: a cart with one line
	status, _ := s.do(http.MethodPost, cartURL+"/items/1", "")
	require.Equal(s.T(), http.StatusOK, status)
	// when: the catalog goes away and another add is attempted
	s.catalogServer.Close()
	status, _ = s.do(http.MethodPost, cartURL+"/items/2", "")
	// then: upstream failure is surfaced, existing cart is intact
	require.Equal(s.T(), http.StatusBadGateway, status)
	items := s.getCart()
	require.Len(s.T(), items, 1)
	require.Equal(s.T(), int64(1), items[0].ID)
}
