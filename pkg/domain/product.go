package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Product struct {
	Id          string
	Slug        string
	Name        string
	Description string

	// nil when the product is not categorized.
	CategoryId *string

	Fabric string
	Color  string

	// list price
	Price Amount

	// discounted price. nil when the product is not on sale.
	SalePrice *Amount

	Stock  int
	Images []string
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnitPrice is the price a customer pays for one piece.
//
// Sale price wins only when it is lower than the list price.
func (p Product) UnitPrice() Amount {
	if p.SalePrice != nil && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

// CanSell tells the product can be sold in qty pieces.
func (p Product) CanSell(qty int) error {
	if !p.Active {
		return &LineError{ProductId: p.Id, Err: ErrProductUnavailable}
	}
	if p.Stock < qty {
		return &LineError{ProductId: p.Id, Err: ErrOutOfStock}
	}
	return nil
}

// ProductSpec is what back-office staff registers or updates.
type ProductSpec struct {
	Slug        string
	Name        string
	Description string
	CategoryId  *string
	Fabric      string
	Color       string
	Price       Amount
	SalePrice   *Amount
	Stock       int
	Active      bool
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsSlug tells s is lower-case words joined with '-', like "kanjivaram-silk".
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func (s ProductSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidProduct)
	}
	if !slugPattern.MatchString(s.Slug) {
		return fmt.Errorf("%w: slug %q should be lower-case words joined with '-'", ErrInvalidProduct, s.Slug)
	}
	if s.Price <= 0 {
		return fmt.Errorf("%w: price should be positive", ErrInvalidProduct)
	}
	if s.SalePrice != nil && (*s.SalePrice <= 0 || s.Price <= *s.SalePrice) {
		return fmt.Errorf("%w: sale price should be positive and lower than price", ErrInvalidProduct)
	}
	if s.Stock < 0 {
		return fmt.Errorf("%w: stock should not be negative", ErrInvalidProduct)
	}
	return nil
}

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

func AsProductSort(s string) (ProductSort, error) {
	switch ps := ProductSort(s); ps {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceAsc, SortPriceDesc:
		return ps, nil
	default:
		return ps, fmt.Errorf("unknown sort order: %q", s)
	}
}

type ProductQuery struct {
	CategorySlug string
	Fabric       string
	Color        string
	MinPrice     *Amount
	MaxPrice     *Amount

	// case-insensitive partial match on name and description.
	Keyword string

	Sort   ProductSort
	Limit  int
	Offset int

	// When true, deactivated products are also found. For back-office.
	IncludeInactive bool
}

type Category struct {
	Id   string
	Slug string
	Name string
}

// Addon is an optional service for a saree, like "fall & pico" or "blouse stitching".
//
// Add-ons are charged per piece.
type Addon struct {
	Id     string
	Name   string
	Price  Amount
	Active bool
}
