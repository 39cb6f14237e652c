package utils

// Map returns mapper(v) for each v in sli, in order.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// Default returns *p, or d when p is nil.
func Default[T any](p *T, d T) T {
	if p != nil {
		return *p
	}
	return d
}
