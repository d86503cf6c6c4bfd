package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// CartService defines the operations for managing the session cart.
// It abstracts the underlying business logic and collaborator access.
type CartService interface {
	// Cart returns a read-only copy of the current cart.
	Cart(ctx context.Context) []Item

	// AddProduct increases the quantity of the given product by 1,
	// fetching product metadata from the catalog on first addition.
	// Returns ErrOutOfStock if the resulting amount would exceed stock.
	AddProduct(ctx context.Context, productID int64) ([]Item, error)

	// RemoveProduct removes the whole line for the given product.
	// Returns ErrProductNotFound if no such line exists.
	RemoveProduct(ctx context.Context, productID int64) ([]Item, error)

	// UpdateProductAmount sets the line amount for the given product.
	// Returns ErrInvalidAmount for amounts below 1, ErrOutOfStock if the
	// amount exceeds stock and ErrProductNotFound if no such line exists.
	UpdateProductAmount(ctx context.Context, productID int64, amount int32) ([]Item, error)
}

// Service implements CartService. It is the single owner of the cart for
// the lifetime of the session: every operation is a full
// validate-then-commit cycle serialized by a mutex, so two in-flight
// mutations of the same product cannot lose each other's update.
type Service struct {
	mu        sync.Mutex
	items     []Item
	stock     StockProvider
	catalog   ProductProvider
	snapshots SnapshotStore
	notifier  Notifier
	logger    *slog.Logger
}

// NewService creates a cart service seeded from the durable snapshot.
// A missing snapshot yields an empty cart.
func NewService(ctx context.Context, stock StockProvider, catalog ProductProvider, snapshots SnapshotStore, notifier Notifier, logger *slog.Logger) (*Service, error) {
	items, err := snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}
	return &Service{
		items:     items,
		stock:     stock,
		catalog:   catalog,
		snapshots: snapshots,
		notifier:  notifier,
		logger:    logger.With("component", "cart"),
	}, nil
}

// Cart returns a copy of the current cart, preserving insertion order.
func (s *Service) Cart(_ context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// AddProduct increases the quantity of productID by 1.
func (s *Service) AddProduct(ctx context.Context, productID int64) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, err := s.stock.StockByID(ctx, productID)
	if err != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("Could not add product %d to the cart", productID), SeverityError)
		return nil, fmt.Errorf("failed to fetch stock for product %d: %w", productID, err)
	}

	idx := s.indexOf(productID)
	candidate := int32(1)
	if idx >= 0 {
		candidate = s.items[idx].Amount + 1
	}
	if candidate > stock.Amount {
		s.notifier.Notify(ctx, fmt.Sprintf("Requested amount for product %d is out of stock", productID), SeverityWarn)
		return nil, fmt.Errorf("product %d: requested %d, available %d: %w", productID, candidate, stock.Amount, ErrOutOfStock)
	}

	var next []Item
	var name string
	if idx >= 0 {
		next = slices.Clone(s.items)
		next[idx].Amount = candidate
		name = next[idx].Name
	} else {
		product, err := s.catalog.ProductByID(ctx, productID)
		if err != nil {
			s.notifier.Notify(ctx, fmt.Sprintf("Could not add product %d to the cart", productID), SeverityError)
			return nil, fmt.Errorf("failed to fetch product %d from catalog: %w", productID, err)
		}
		next = append(slices.Clone(s.items), Item{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			ImageURL: product.ImageURL,
			Amount:   1,
		})
		name = product.Name
	}

	if err := s.commit(ctx, next); err != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("Could not add product %d to the cart", productID), SeverityError)
		return nil, err
	}
	s.logger.InfoContext(ctx, "Product added to cart", "product_id", productID, "amount", candidate)
	s.notifier.Notify(ctx, fmt.Sprintf("%s added to the cart", name), SeverityInfo)
	return slices.Clone(next), nil
}

// RemoveProduct removes the whole line for productID, regardless of its amount.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		s.notifier.Notify(ctx, fmt.Sprintf("Product %d is not in the cart", productID), SeverityWarn)
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}

	next := slices.Delete(slices.Clone(s.items), idx, idx+1)
	name := s.items[idx].Name

	if err := s.commit(ctx, next); err != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("Could not remove product %d from the cart", productID), SeverityError)
		return nil, err
	}
	s.logger.InfoContext(ctx, "Product removed from cart", "product_id", productID)
	s.notifier.Notify(ctx, fmt.Sprintf("%s removed from the cart", name), SeverityInfo)
	return slices.Clone(next), nil
}

// UpdateProductAmount sets the line amount for productID to exactly amount.
func (s *Service) UpdateProductAmount(ctx context.Context, productID int64, amount int32) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount < 1 {
		s.notifier.Notify(ctx, fmt.Sprintf("Invalid amount %d for product %d", amount, productID), SeverityWarn)
		return nil, fmt.Errorf("product %d: amount %d: %w", productID, amount, ErrInvalidAmount)
	}

	stock, err := s.stock.StockByID(ctx, productID)
	if err != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("Could not update amount for product %d", productID), SeverityError)
		return nil, fmt.Errorf("failed to fetch stock for product %d: %w", productID, err)
	}
	if amount > stock.Amount {
		s.notifier.Notify(ctx, fmt.Sprintf("Requested amount for product %d is out of stock", productID), SeverityWarn)
		return nil, fmt.Errorf("product %d: requested %d, available %d: %w", productID, amount, stock.Amount, ErrOutOfStock)
	}

	idx := s.indexOf(productID)
	if idx < 0 {
		s.notifier.Notify(ctx, fmt.Sprintf("Product %d is not in the cart", productID), SeverityWarn)
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}

	next := slices.Clone(s.items)
	next[idx].Amount = amount

	if err := s.commit(ctx, next); err != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("Could not update amount for product %d", productID), SeverityError)
		return nil, err
	}
	s.logger.InfoContext(ctx, "Product amount updated", "product_id", productID, "amount", amount)
	s.notifier.Notify(ctx, fmt.Sprintf("%s amount set to %d", next[idx].Name, amount), SeverityInfo)
	return slices.Clone(next), nil
}

// commit persists the new cart and only then swaps the in-memory state.
// On save failure both the old snapshot and the old in-memory cart are
// retained, so callers observe either the old or the new state, never a
// mix of both.
func (s *Service) commit(ctx context.Context, next []Item) error {
	if err := s.snapshots.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	s.items = next
	return nil
}

// indexOf returns the position of productID in the cart, or -1.
// Callers must hold s.mu.
func (s *Service) indexOf(productID int64) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == productID })
}

// IsRejection reports whether err is an expected domain rejection rather
// than a collaborator failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrOutOfStock)
}
