package phplit

import "fmt"

const defaultMaxDepth = 1000

type options struct {
	maxDepth        int
	disallowUnknown bool
}

// Option configures parsing and decoding.
type Option func(*options) error

// MaxDepth sets the maximum nesting depth accepted by the parser and the
// decoder. This guards against stack exhaustion on pathological input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("phplit: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// DisallowUnknownFields makes decoding into a struct fail when the array
// contains a key that matches no field. By default unknown keys are
// ignored.
func DisallowUnknownFields() Option {
	return func(o *options) error {
		o.disallowUnknown = true
		return nil
	}
}

func applyOptions(opts []Option) (*options, error) {
	o := &options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
