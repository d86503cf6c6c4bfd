// Package catalog provides the HTTP client for the remote catalog API,
// serving both stock lookups and product metadata.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/gocart/internal/cart"
	"github.com/go-playground/validator/v10"
)

// ErrProductUnknown is returned when the catalog has no such product.
var ErrProductUnknown = errors.New("product unknown to catalog")

// Client talks to the catalog service over HTTP. It implements both
// cart.StockProvider and cart.ProductProvider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *slog.Logger
}

var (
	_ cart.StockProvider   = (*Client)(nil)
	_ cart.ProductProvider = (*Client)(nil)
)

// NewClient creates a catalog client for the given base URL.
// The timeout bounds every request, including body read.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		logger:     logger.With("component", "catalog_client"),
	}
}

// stockDto is the catalog's wire format for a stock record.
type stockDto struct {
	ID     int64 `json:"id"     validate:"required"`
	Amount int32 `json:"amount" validate:"min=0"`
}

// productDto is the catalog's wire format for a product record.
type productDto struct {
	ID       int64  `json:"id"        validate:"required"`
	Name     string `json:"name"      validate:"required"`
	Price    int64  `json:"price"     validate:"min=0"`
	ImageURL string `json:"image_url"`
}

// StockByID fetches the current available quantity for a product.
func (c *Client) StockByID(ctx context.Context, productID int64) (*cart.StockInfo, error) {
	var dto stockDto
	if err := c.get(ctx, fmt.Sprintf("%s/api/v1/stock/%d", c.baseURL, productID), &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch stock for product %d: %w", productID, err)
	}
	return &cart.StockInfo{ProductID: dto.ID, Amount: dto.Amount}, nil
}

// ProductByID fetches descriptive product data from the catalog.
func (c *Client) ProductByID(ctx context.Context, productID int64) (*cart.ProductInfo, error) {
	var dto productDto
	if err := c.get(ctx, fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, productID), &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}
	return &cart.ProductInfo{ID: dto.ID, Name: dto.Name, Price: dto.Price, ImageURL: dto.ImageURL}, nil
}

// get performs the request and decodes the response into out, validating
// the payload against its struct tags. Upstream payloads are not trusted.
func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			c.logger.Warn("Failed to close catalog response body", "error", cErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrProductUnknown
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("catalog responded with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("catalog response failed validation: %w", err)
	}
	return nil
}
