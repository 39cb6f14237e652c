package contents

import (
	"encoding/json"

	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

type Content struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}
