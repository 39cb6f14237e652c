package db

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
)

// CatalogInterface is the repository of products, categories and add-ons.
type CatalogInterface interface {
	// Find products matching the query.
	Find(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error)

	// Get products by id.
	//
	// Products not found are not in the result.
	Get(ctx context.Context, ids []string) (map[string]domain.Product, error)

	// GetBySlug returns the product.
	//
	// # Returns
	//
	// - error: ErrMissing when there are no such products.
	GetBySlug(ctx context.Context, slug string) (domain.Product, error)

	// Create registers a new product.
	//
	// # Returns
	//
	// - error: ErrConflict when the slug is taken.
	// ErrMissing when the category does not exist.
	Create(ctx context.Context, spec domain.ProductSpec) (domain.Product, error)

	// Update replaces attributes of the product. Images are kept.
	Update(ctx context.Context, id string, spec domain.ProductSpec) (domain.Product, error)

	// Deactivate hides the product from the shop.
	//
	// Products are not deleted, since orders refer them.
	Deactivate(ctx context.Context, id string) error

	// AddImage appends an image url to the product.
	AddImage(ctx context.Context, id string, url string) (domain.Product, error)

	// RemoveImage removes an image url from the product.
	//
	// # Returns
	//
	// - error: ErrMissing when the product does not have the image.
	RemoveImage(ctx context.Context, id string, url string) (domain.Product, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)

	// CreateCategory registers a category.
	//
	// # Returns
	//
	// - error: ErrConflict when the slug is taken.
	CreateCategory(ctx context.Context, slug string, name string) (domain.Category, error)

	// DeleteCategory removes the category. Products in the category become uncategorized.
	DeleteCategory(ctx context.Context, id string) error

	// ListAddons returns add-ons. Inactive ones are included only when includeInactive.
	ListAddons(ctx context.Context, includeInactive bool) ([]domain.Addon, error)

	// GetAddons returns add-ons by id. Add-ons not found are not in the result.
	GetAddons(ctx context.Context, ids []string) (map[string]domain.Addon, error)

	// UpsertAddon creates or replaces the add-on.
	UpsertAddon(ctx context.Context, addon domain.Addon) (domain.Addon, error)
}
