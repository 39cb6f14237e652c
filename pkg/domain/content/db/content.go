package db

import (
	"context"
	"encoding/json"

	"github.com/sareeloom/storefront/pkg/domain"
)

type ContentInterface interface {
	// Get the content block.
	//
	// # Returns
	//
	// - error: ErrMissing when there are no blocks with the key.
	Get(ctx context.Context, key string) (domain.ContentBlock, error)

	// Put creates or replaces the content block. value should be a JSON document.
	Put(ctx context.Context, key string, value json.RawMessage) (domain.ContentBlock, error)
}
