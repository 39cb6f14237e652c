package mocks

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
	reviewdb "github.com/sareeloom/storefront/pkg/domain/review/db"
)

type ReviewInterface struct {
	Impl struct {
		Create            func(ctx context.Context, spec domain.ReviewSpec) (domain.Review, error)
		ListApproved      func(ctx context.Context, productId string) ([]domain.Review, error)
		Summary           func(ctx context.Context, productId string) (domain.ReviewSummary, error)
		ListForModeration func(ctx context.Context, approved bool) ([]domain.Review, error)
		SetApproval       func(ctx context.Context, reviewId string, approved bool) (domain.Review, error)
		Delete            func(ctx context.Context, reviewId string) error
	}
	Calls struct {
		Create            dbmock.CallLog[domain.ReviewSpec]
		ListApproved      dbmock.CallLog[string]
		Summary           dbmock.CallLog[string]
		ListForModeration dbmock.CallLog[bool]
		SetApproval       dbmock.CallLog[struct {
			ReviewId string
			Approved bool
		}]
		Delete dbmock.CallLog[string]
	}
}

func NewReviewInterface() *ReviewInterface {
	return &ReviewInterface{}
}

var _ reviewdb.ReviewInterface = &ReviewInterface{}

func (m *ReviewInterface) Create(ctx context.Context, spec domain.ReviewSpec) (domain.Review, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic("it should not be called")
}

func (m *ReviewInterface) ListApproved(ctx context.Context, productId string) ([]domain.Review, error) {
	m.Calls.ListApproved = append(m.Calls.ListApproved, productId)
	if m.Impl.ListApproved != nil {
		return m.Impl.ListApproved(ctx, productId)
	}
	panic("it should not be called")
}

func (m *ReviewInterface) Summary(ctx context.Context, productId string) (domain.ReviewSummary, error) {
	m.Calls.Summary = append(m.Calls.Summary, productId)
	if m.Impl.Summary != nil {
		return m.Impl.Summary(ctx, productId)
	}
	panic("it should not be called")
}

func (m *ReviewInterface) ListForModeration(ctx context.Context, approved bool) ([]domain.Review, error) {
	m.Calls.ListForModeration = append(m.Calls.ListForModeration, approved)
	if m.Impl.ListForModeration != nil {
		return m.Impl.ListForModeration(ctx, approved)
	}
	panic("it should not be called")
}

func (m *ReviewInterface) SetApproval(ctx context.Context, reviewId string, approved bool) (domain.Review, error) {
	m.Calls.SetApproval = append(m.Calls.SetApproval, struct {
		ReviewId string
		Approved bool
	}{ReviewId: reviewId, Approved: approved})
	if m.Impl.SetApproval != nil {
		return m.Impl.SetApproval(ctx, reviewId, approved)
	}
	panic("it should not be called")
}

func (m *ReviewInterface) Delete(ctx context.Context, reviewId string) error {
	m.Calls.Delete = append(m.Calls.Delete, reviewId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, reviewId)
	}
	panic("it should not be called")
}
