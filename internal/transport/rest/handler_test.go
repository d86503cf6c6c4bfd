package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/gocart/internal/cart"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCartService is a mock implementation of the CartService interface
type mockCartService struct {
	items []cart.Item
	error error
}

func (m *mockCartService) Cart(_ context.Context) []cart.Item {
	return m.items
}

func (m *mockCartService) AddProduct(_ context.Context, _ int64) ([]cart.Item, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.items, nil
}

func (m *mockCartService) RemoveProduct(_ context.Context, _ int64) ([]cart.Item, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.items, nil
}

func (m *mockCartService) UpdateProductAmount(_ context.Context, _ int64, _ int32) ([]cart.Item, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.items, nil
}

var testLogger = slog.New(slog.DiscardHandler)

// serve executes a request against a freshly wired router and returns the response.
func serve(t *testing.T, service cart.CartService, method, target, body string) *http.Response {
	t.Helper()
	mux := chi.NewRouter()
	NewHandler(service, testLogger).RegisterRoutes(mux)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec.Result()
}

func decodeItems(t *testing.T, resp *http.Response) []cart.Item {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var items []cart.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	return items
}

func Test_Handler_GetCart(t *testing.T) {
	// given
	service := &mockCartService{items: []cart.Item{{ID: 1, Name: "Sneaker", Price: 14990, Amount: 2}}}
	// when
	resp := serve(t, service, http.MethodGet, "/api/v1/cart", "")
	// then
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.items, decodeItems(t, resp))
}

func Test_Handler_AddProduct(t *testing.T) {
	testCases := []struct {
		name           string
		target         string
		service        *mockCartService
		expectedStatus int
	}{
		{
			name:           "Success - product added",
			target:         "/api/v1/cart/items/1",
			service:        &mockCartService{items: []cart.Item{{ID: 1, Name: "Sneaker", Amount: 1}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Error - invalid product ID",
			target:         "/api/v1/cart/items/abc",
			service:        &mockCartService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - out of stock maps to 409",
			target:         "/api/v1/cart/items/1",
			service:        &mockCartService{error: cart.ErrOutOfStock},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Error - upstream failure maps to 502",
			target:         "/api/v1/cart/items/1",
			service:        &mockCartService{error: errors.New("stock service unavailable")},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			resp := serve(t, tc.service, http.MethodPost, tc.target, "")
			defer func() { _ = resp.Body.Close() }()
			// then
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func Test_Handler_RemoveProduct(t *testing.T) {
	testCases := []struct {
		name           string
		service        *mockCartService
		expectedStatus int
	}{
		{
			name:           "Success - product removed",
			service:        &mockCartService{items: []cart.Item{}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Error - product not in cart maps to 404",
			service:        &mockCartService{error: cart.ErrProductNotFound},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			resp := serve(t, tc.service, http.MethodDelete, "/api/v1/cart/items/1", "")
			defer func() { _ = resp.Body.Close() }()
			// then
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func Test_Handler_UpdateProductAmount(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		service        *mockCartService
		expectedStatus int
	}{
		{
			name:           "Success - amount updated",
			body:           `{"amount": 3}`,
			service:        &mockCartService{items: []cart.Item{{ID: 1, Name: "Sneaker", Amount: 3}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Error - malformed body",
			body:           `{"amount":`,
			service:        &mockCartService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - zero amount fails validation",
			body:           `{"amount": 0}`,
			service:        &mockCartService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - amount exceeds stock maps to 409",
			body:           `{"amount": 99}`,
			service:        &mockCartService{error: cart.ErrOutOfStock},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Error - product not in cart maps to 404",
			body:           `{"amount": 2}`,
			service:        &mockCartService{error: cart.ErrProductNotFound},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			resp := serve(t, tc.service, http.MethodPut, "/api/v1/cart/items/1", tc.body)
			defer func() { _ = resp.Body.Close() }()
			// then
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func Test_Handler_HealthCheck(t *testing.T) {
	resp := serve(t, &mockCartService{}, http.MethodGet, "/healthz", "")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
