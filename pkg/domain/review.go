package domain

import (
	"fmt"
	"strings"
	"time"
)

type Review struct {
	Id         string
	ProductId  string
	UserId     string
	AuthorName string
	Rating     int
	Comment    string
	Approved   bool
	CreatedAt  time.Time
}

type ReviewSpec struct {
	ProductId  string
	UserId     string
	AuthorName string
	Rating     int
	Comment    string
}

const MaxReviewComment = 2000

func (r ReviewSpec) Validate() error {
	if r.Rating < 1 || 5 < r.Rating {
		return fmt.Errorf("%w: rating should be in 1..5", ErrInvalidReview)
	}
	if MaxReviewComment < len([]rune(r.Comment)) {
		return fmt.Errorf("%w: comment is too long (max %d characters)", ErrInvalidReview, MaxReviewComment)
	}
	if strings.TrimSpace(r.AuthorName) == "" {
		return fmt.Errorf("%w: author name is empty", ErrInvalidReview)
	}
	return nil
}

// ReviewSummary is aggregation of approved reviews of a product.
type ReviewSummary struct {
	Count   int
	Average float64
}
