package contents

import (
	apicontents "github.com/sareeloom/storefront/pkg/api/types/contents"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

func ComposeContent(b domain.ContentBlock) apicontents.Content {
	return apicontents.Content{Key: b.Key, Value: b.Value, UpdatedAt: rfctime.RFC3339(b.UpdatedAt)}
}
