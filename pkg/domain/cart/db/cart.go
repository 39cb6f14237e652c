package db

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
)

// CartInterface is the repository of shopping carts. A user has one cart.
type CartInterface interface {
	// List returns items in the cart of the user, in the order they were added.
	List(ctx context.Context, userId string) ([]domain.CartItem, error)

	// Put adds the item, or replaces the line of the same product.
	//
	// # Returns
	//
	// - error: ErrMissing when the product does not exist.
	Put(ctx context.Context, userId string, item domain.CartItem) (domain.CartItem, error)

	// Remove the line of the product.
	//
	// # Returns
	//
	// - error: ErrMissing when the cart does not have the product.
	Remove(ctx context.Context, userId string, productId string) error

	// Clear empties the cart.
	Clear(ctx context.Context, userId string) error
}
