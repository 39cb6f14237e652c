package domain

import (
	"encoding/json"
	"time"
)

// ContentBlock is a free-form json document shown by the shop, like a home banner.
type ContentBlock struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
}
