// Package catalog is JSON representation of products, categories and add-ons.
//
// Amounts are in paise.
package catalog

import (
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

type Product struct {
	ProductId   string  `json:"productId"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	CategoryId  *string `json:"categoryId,omitempty"`
	Fabric      string  `json:"fabric,omitempty"`
	Color       string  `json:"color,omitempty"`

	Price     domain.Amount  `json:"price"`
	SalePrice *domain.Amount `json:"salePrice,omitempty"`

	// price to be charged for a piece.
	UnitPrice domain.Amount `json:"unitPrice"`

	Stock  int      `json:"stock"`
	Images []string `json:"images"`
	Active bool     `json:"active"`

	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}

// ProductSpec is a request body to register or update a product.
type ProductSpec struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CategoryId  *string        `json:"categoryId"`
	Fabric      string         `json:"fabric"`
	Color       string         `json:"color"`
	Price       domain.Amount  `json:"price"`
	SalePrice   *domain.Amount `json:"salePrice"`
	Stock       int            `json:"stock"`

	// default: true
	Active *bool `json:"active"`
}

type Category struct {
	CategoryId string `json:"categoryId"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
}

type CategorySpec struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Addon struct {
	AddonId string        `json:"addonId"`
	Name    string        `json:"name"`
	Price   domain.Amount `json:"price"`
	Active  bool          `json:"active"`
}

type AddonSpec struct {
	Name  string        `json:"name"`
	Price domain.Amount `json:"price"`

	// default: true
	Active *bool `json:"active"`
}
