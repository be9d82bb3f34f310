package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

// CartService manages the single active cart. A multi-user system would
// key carts by user; here one household shares one cart.
type CartService struct {
	store store.Store
	log   zerolog.Logger
}

func NewCartService(s store.Store, log zerolog.Logger) *CartService {
	return &CartService{store: s, log: log}
}

// GetCart returns the active cart, creating it if none exists.
func (s *CartService) GetCart(ctx context.Context) (model.Cart, error) {
	if cart := s.store.Carts().FindOne(func(c *model.Cart) bool { return c.Status == "active" }); cart != nil {
		return *cart, nil
	}

	now := time.Now().UTC()
	cart := model.Cart{
		ID:        uuid.NewString(),
		Items:     []model.CartItem{},
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.store.Carts().Insert(cart); err != nil {
		return model.Cart{}, err
	}
	s.log.Info().Str("cart_id", cart.ID).Msg("Created new active cart")
	return cart, nil
}

// AddToCart adds quantity of a product; an existing line with the same
// product and vendor is merged.
func (s *CartService) AddToCart(ctx context.Context, product model.Product, quantity float64, vendor string) (model.Cart, error) {
	if quantity <= 0 {
		return model.Cart{}, fmt.Errorf("quantity must be positive: %w", model.ErrValidation)
	}
	cart, err := s.GetCart(ctx)
	if err != nil {
		return model.Cart{}, err
	}

	updated, err := s.store.Carts().Update(
		func(c *model.Cart) bool { return c.ID == cart.ID },
		func(c *model.Cart) {
			for i := range c.Items {
				if c.Items[i].ProductID == product.ID && c.Items[i].Vendor == vendor {
					c.Items[i].Quantity += quantity
					c.UpdatedAt = time.Now().UTC()
					return
				}
			}
			c.Items = append(c.Items, model.CartItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  quantity,
				Vendor:    vendor,
				Category:  product.Category,
			})
			c.UpdatedAt = time.Now().UTC()
		},
	)
	if err != nil {
		return model.Cart{}, err
	}
	return *updated, nil
}

// RemoveFromCart drops every line for the given product id.
func (s *CartService) RemoveFromCart(ctx context.Context, productID string) (model.Cart, error) {
	cart, err := s.GetCart(ctx)
	if err != nil {
		return model.Cart{}, err
	}
	updated, err := s.store.Carts().Update(
		func(c *model.Cart) bool { return c.ID == cart.ID },
		func(c *model.Cart) {
			kept := c.Items[:0]
			for _, it := range c.Items {
				if it.ProductID != productID {
					kept = append(kept, it)
				}
			}
			c.Items = kept
			c.UpdatedAt = time.Now().UTC()
		},
	)
	if err != nil {
		return model.Cart{}, err
	}
	return *updated, nil
}

// ClearCart empties the active cart.
func (s *CartService) ClearCart(ctx context.Context) error {
	cart, err := s.GetCart(ctx)
	if err != nil {
		return err
	}
	_, err = s.store.Carts().Update(
		func(c *model.Cart) bool { return c.ID == cart.ID },
		func(c *model.Cart) {
			c.Items = []model.CartItem{}
			c.UpdatedAt = time.Now().UTC()
		},
	)
	return err
}

// CalculateTotal sums price*quantity over the active cart.
func (s *CartService) CalculateTotal(ctx context.Context) (float64, error) {
	cart, err := s.GetCart(ctx)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, it := range cart.Items {
		total += it.Price * it.Quantity
	}
	return total, nil
}
