// Package try turns a (value, error) pair into a value, or a fatal exit.
package try

// Fataler is *testing.T, *log.Logger and the like.
type Fataler interface {
	Fatal(...any)
}

// Result holds either a value or an error.
type Result[T any] struct {
	value T
	err   error
}

// To wraps the results of a call.
//
//	db := try.To(pgstorefront.New(ctx, uri)).OrFatal(logger)
func To[T any](value T, err error) Result[T] {
	return Result[T]{value: value, err: err}
}

func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		return *new(T), r.err
	}
	return r.value, nil
}

// OrFatal returns the value, or calls ftl.Fatal with the error.
//
// ftl.Helper is called before Fatal if ftl has it.
func (r Result[T]) OrFatal(ftl Fataler) T {
	if r.err == nil {
		return r.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(r.err)
	return *new(T)
}
