package reviews

import "github.com/sareeloom/storefront/pkg/utils/rfctime"

type Review struct {
	ReviewId   string          `json:"reviewId"`
	ProductId  string          `json:"productId"`
	AuthorName string          `json:"authorName"`
	Rating     int             `json:"rating"`
	Comment    string          `json:"comment,omitempty"`
	Approved   bool            `json:"approved"`
	CreatedAt  rfctime.RFC3339 `json:"createdAt"`
}

type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// ProductReviews is approved reviews of a product.
type ProductReviews struct {
	Summary Summary  `json:"summary"`
	Reviews []Review `json:"reviews"`
}

type ReviewSpec struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`

	// empty means the name of the user.
	AuthorName string `json:"authorName"`
}

type Approval struct {
	Approved bool `json:"approved"`
}
