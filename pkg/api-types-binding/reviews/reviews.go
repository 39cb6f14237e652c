package reviews

import (
	apireviews "github.com/sareeloom/storefront/pkg/api/types/reviews"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

func ComposeReview(r domain.Review) apireviews.Review {
	return apireviews.Review{
		ReviewId:   r.Id,
		ProductId:  r.ProductId,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Approved:   r.Approved,
		CreatedAt:  rfctime.RFC3339(r.CreatedAt),
	}
}

func ComposeSummary(s domain.ReviewSummary) apireviews.Summary {
	return apireviews.Summary{Count: s.Count, Average: s.Average}
}
