// Package cart holds the session cart model and the ports the cart
// service depends on (stock source, product catalog, snapshot store,
// notification sink).
package cart

import "context"

// Item represents one product line in the cart. Quantity is folded
// directly into the entry; there is no separate cart-line entity.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"` // Price in cents
	ImageURL string `json:"image_url"`
	Amount   int32  `json:"amount"`
}

// StockInfo is the externally sourced available quantity for a product.
// It is queried fresh on every mutating operation and never persisted.
type StockInfo struct {
	ProductID int64
	Amount    int32
}

// ProductInfo is the descriptive product data fetched from the catalog
// the first time a product enters the cart.
type ProductInfo struct {
	ID       int64
	Name     string
	Price    int64
	ImageURL string
}

// StockProvider returns the current available quantity for a product.
type StockProvider interface {
	StockByID(ctx context.Context, productID int64) (*StockInfo, error)
}

// ProductProvider returns descriptive product data for a product.
type ProductProvider interface {
	ProductByID(ctx context.Context, productID int64) (*ProductInfo, error)
}

// SnapshotStore persists the whole cart as one durable snapshot.
// Load returns an empty cart if no snapshot exists.
type SnapshotStore interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// Severity classifies a notification message.
type Severity string

const (
	// SeverityInfo marks a successful operation.
	SeverityInfo Severity = "info"
	// SeverityWarn marks an expected rejection (out of stock, not found).
	SeverityWarn Severity = "warn"
	// SeverityError marks a transport failure while talking to a collaborator.
	SeverityError Severity = "error"
)

// Notifier receives human-readable outcome messages. Implementations are
// fire-and-forget: delivery failures must never affect the operation.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}
