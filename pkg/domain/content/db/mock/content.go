package mocks

import (
	"context"
	"encoding/json"

	"github.com/sareeloom/storefront/pkg/domain"
	contentdb "github.com/sareeloom/storefront/pkg/domain/content/db"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
)

type ContentInterface struct {
	Impl struct {
		Get func(ctx context.Context, key string) (domain.ContentBlock, error)
		Put func(ctx context.Context, key string, value json.RawMessage) (domain.ContentBlock, error)
	}
	Calls struct {
		Get dbmock.CallLog[string]
		Put dbmock.CallLog[struct {
			Key   string
			Value json.RawMessage
		}]
	}
}

func NewContentInterface() *ContentInterface {
	return &ContentInterface{}
}

var _ contentdb.ContentInterface = &ContentInterface{}

func (m *ContentInterface) Get(ctx context.Context, key string) (domain.ContentBlock, error) {
	m.Calls.Get = append(m.Calls.Get, key)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, key)
	}
	panic("it should not be called")
}

func (m *ContentInterface) Put(ctx context.Context, key string, value json.RawMessage) (domain.ContentBlock, error) {
	m.Calls.Put = append(m.Calls.Put, struct {
		Key   string
		Value json.RawMessage
	}{Key: key, Value: value})
	if m.Impl.Put != nil {
		return m.Impl.Put(ctx, key, value)
	}
	panic("it should not be called")
}
