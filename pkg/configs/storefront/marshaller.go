package storefront

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrMisconfigured = fmt.Errorf("misconfigured")

// load storefront config from a file.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *StorefrontConfig, error:
//
//	When loading success, returns `(*StorefrontConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadStorefrontConfig(filepath string) (*StorefrontConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (out *StorefrontConfig, err error) {
	var _out *StorefrontConfigMarshall
	if err = yaml.Unmarshal(conf, &_out); err != nil {
		return nil, err
	}
	if _out == nil {
		return nil, fmt.Errorf("%w: config is empty", ErrMisconfigured)
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrMisconfigured, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrMisconfigured, r)
			}
		}
	}()
	out = TrySeal(_out)
	return out, nil
}
