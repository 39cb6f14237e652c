package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	bindreviews "github.com/sareeloom/storefront/pkg/api-types-binding/reviews"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	apireviews "github.com/sareeloom/storefront/pkg/api/types/reviews"
	"github.com/sareeloom/storefront/pkg/domain"
	reviewdb "github.com/sareeloom/storefront/pkg/domain/review/db"
	"github.com/sareeloom/storefront/pkg/utils"
)

// GetProductReviewsHandler returns approved reviews of the product and their summary.
func GetProductReviewsHandler(dbreview reviewdb.ReviewInterface, productIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		productId := c.Param(productIdParam)

		reviews, err := dbreview.ListApproved(ctx, productId)
		if err != nil {
			return apierr.FromDomain(err)
		}
		summary, err := dbreview.Summary(ctx, productId)
		if err != nil {
			return apierr.FromDomain(err)
		}

		rs := utils.Map(reviews, bindreviews.ComposeReview)
		if rs == nil {
			rs = []apireviews.Review{}
		}
		return c.JSON(http.StatusOK, apireviews.ProductReviews{
			Summary: bindreviews.ComposeSummary(summary),
			Reviews: rs,
		})
	}
}

// PostReviewHandler posts a review by the user. It is shown after approval.
func PostReviewHandler(dbreview reviewdb.ReviewInterface, productIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userOf(c)
		if err != nil {
			return err
		}
		req := new(apireviews.ReviewSpec)
		if err := bindJSON(c, req); err != nil {
			return err
		}

		spec := domain.ReviewSpec{
			ProductId:  c.Param(productIdParam),
			UserId:     user.Id,
			AuthorName: authorName(*req, user),
			Rating:     req.Rating,
			Comment:    strings.TrimSpace(req.Comment),
		}
		if err := spec.Validate(); err != nil {
			return apierr.FromDomain(err)
		}

		review, err := dbreview.Create(c.Request().Context(), spec)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return apierr.Conflict("you have reviewed the product already", apierr.WithError(err))
			}
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusCreated, bindreviews.ComposeReview(review))
	}
}

func authorName(req apireviews.ReviewSpec, user domain.User) string {
	if n := strings.TrimSpace(req.AuthorName); n != "" {
		return n
	}
	if n := strings.TrimSpace(user.Name); n != "" {
		return n
	}
	local, _, _ := strings.Cut(user.Email, "@")
	return local
}

// ListReviewsForModerationHandler lists reviews by query parameter approved (default: false).
func ListReviewsForModerationHandler(dbreview reviewdb.ReviewInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		approved, err := queryBool(c, "approved", false)
		if err != nil {
			return err
		}
		reviews, err := dbreview.ListForModeration(c.Request().Context(), approved)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(reviews, bindreviews.ComposeReview))
	}
}

func PutReviewApprovalHandler(dbreview reviewdb.ReviewInterface, reviewIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apireviews.Approval)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		review, err := dbreview.SetApproval(c.Request().Context(), c.Param(reviewIdParam), req.Approved)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindreviews.ComposeReview(review))
	}
}

func DeleteReviewHandler(dbreview reviewdb.ReviewInterface, reviewIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := dbreview.Delete(c.Request().Context(), c.Param(reviewIdParam)); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
