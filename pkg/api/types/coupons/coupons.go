package coupons

import (
	"github.com/sareeloom/storefront/pkg/api/types/orders"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

type Coupon struct {
	Code string `json:"code"`

	// "percent" or "fixed"
	Type string `json:"type"`

	// percentage for "percent", paise for "fixed".
	Value int64 `json:"value"`

	MaxDiscount *domain.Amount   `json:"maxDiscount,omitempty"`
	MinOrder    domain.Amount    `json:"minOrder"`
	UsageLimit  *int             `json:"usageLimit,omitempty"`
	UsedCount   int              `json:"usedCount"`
	ValidFrom   *rfctime.RFC3339 `json:"validFrom,omitempty"`
	ValidUntil  *rfctime.RFC3339 `json:"validUntil,omitempty"`
	Active      bool             `json:"active"`
}

// Validation is a request body to try a coupon on lines.
type Validation struct {
	Code  string        `json:"code"`
	Lines []orders.Line `json:"lines"`
}

// Quote is a result of Validation.
type Quote struct {
	Code      string           `json:"code"`
	Breakdown orders.Breakdown `json:"breakdown"`
}
