package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/domain/cart"
)

// CartService drives the cart with live product data: adds fetch the
// product snapshot from the backend so the cart stores current price and
// name, not whatever the user typed.
type CartService struct {
	catalog *CatalogService
	cart    *cart.Cart
	logger  *slog.Logger
}

// NewCartService creates a CartService.
func NewCartService(catalogSvc *CatalogService, c *cart.Cart, logger *slog.Logger) *CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartService{
		catalog: catalogSvc,
		cart:    c,
		logger:  logger,
	}
}

// Add fetches the product and adds it to the cart. An unknown id surfaces
// the resource layer's NotFound error untouched.
func (s *CartService) Add(ctx context.Context, productID int64) (cart.Item, error) {
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return cart.Item{}, err
	}
	if !p.IsActive {
		return cart.Item{}, fmt.Errorf("product %d (%s) is not available", p.ID, p.Name)
	}
	s.cart.Add(p)
	for _, it := range s.cart.Items() {
		if it.ID == productID {
			return it, nil
		}
	}
	// Unreachable: Add either merged or appended the id.
	return cart.Item{Product: p, Quantity: 1}, nil
}

// Remove deletes the line item for the given product id.
func (s *CartService) Remove(productID int64) {
	s.cart.Remove(productID)
}

// Clear empties the cart.
func (s *CartService) Clear() {
	s.cart.Clear()
}

// Summary returns the items with the derived totals.
func (s *CartService) Summary() ([]cart.Item, int, float64) {
	return s.cart.Items(), s.cart.TotalItems(), s.cart.TotalPrice()
}

// Refresh re-fetches every cart product and updates stale snapshots,
// dropping items whose products no longer exist or were deactivated.
// Returns the dropped products' names.
func (s *CartService) Refresh(ctx context.Context) ([]string, error) {
	var dropped []string
	for _, it := range s.cart.Items() {
		p, err := s.catalog.Product(ctx, it.ID)
		if err != nil || !p.IsActive {
			if err != nil && !isNotFound(err) {
				return dropped, err
			}
			s.cart.Remove(it.ID)
			dropped = append(dropped, it.Name)
			continue
		}
		if p.Price != it.Price || p.Name != it.Name {
			// Swap the snapshot in place; quantity and position survive.
			s.cart.Update(p)
		}
	}
	return dropped, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, rest.ErrNotFound)
}
