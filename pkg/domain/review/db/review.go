package db

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
)

type ReviewInterface interface {
	// Create a review. It is not approved yet.
	//
	// # Returns
	//
	// - error: ErrConflict when the user has reviewed the product already.
	// ErrMissing when the product does not exist.
	Create(ctx context.Context, spec domain.ReviewSpec) (domain.Review, error)

	// ListApproved returns approved reviews of the product, newest first.
	ListApproved(ctx context.Context, productId string) ([]domain.Review, error)

	// Summary aggregates approved reviews of the product.
	Summary(ctx context.Context, productId string) (domain.ReviewSummary, error)

	// ListForModeration returns reviews with the approval, oldest first.
	ListForModeration(ctx context.Context, approved bool) ([]domain.Review, error)

	// SetApproval approves or withdraws approval of the review.
	//
	// # Returns
	//
	// - error: ErrMissing when the review does not exist.
	SetApproval(ctx context.Context, reviewId string, approved bool) (domain.Review, error)

	// Delete the review.
	//
	// # Returns
	//
	// - error: ErrMissing when the review does not exist.
	Delete(ctx context.Context, reviewId string) error
}
