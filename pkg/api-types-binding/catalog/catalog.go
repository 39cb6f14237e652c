package catalog

import (
	apicatalog "github.com/sareeloom/storefront/pkg/api/types/catalog"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

func ComposeProduct(p domain.Product) apicatalog.Product {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return apicatalog.Product{
		ProductId:   p.Id,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		CategoryId:  p.CategoryId,
		Fabric:      p.Fabric,
		Color:       p.Color,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		UnitPrice:   p.UnitPrice(),
		Stock:       p.Stock,
		Images:      images,
		Active:      p.Active,
		CreatedAt:   rfctime.RFC3339(p.CreatedAt),
		UpdatedAt:   rfctime.RFC3339(p.UpdatedAt),
	}
}

// ParseProductSpec converts a request into domain.ProductSpec, and validates it.
func ParseProductSpec(spec apicatalog.ProductSpec) (domain.ProductSpec, error) {
	s := domain.ProductSpec{
		Slug:        spec.Slug,
		Name:        spec.Name,
		Description: spec.Description,
		CategoryId:  spec.CategoryId,
		Fabric:      spec.Fabric,
		Color:       spec.Color,
		Price:       spec.Price,
		SalePrice:   spec.SalePrice,
		Stock:       spec.Stock,
		Active:      utils.Default(spec.Active, true),
	}
	if err := s.Validate(); err != nil {
		return domain.ProductSpec{}, err
	}
	return s, nil
}

func ComposeCategory(c domain.Category) apicatalog.Category {
	return apicatalog.Category{CategoryId: c.Id, Slug: c.Slug, Name: c.Name}
}

func ComposeAddon(a domain.Addon) apicatalog.Addon {
	return apicatalog.Addon{AddonId: a.Id, Name: a.Name, Price: a.Price, Active: a.Active}
}
