// Package args adapts parse functions to flag.Value.
package args

// Value is a flag.Value backed by a parse function.
type Value[T interface{ String() string }] struct {
	parse func(string) (T, error)
	value T
	set   bool
}

// Parser makes a flag.Value which accepts what parse accepts.
//
//	loopType := args.Parser(domain.AsLoopType)
//	flag.Var(loopType, "type", "...")
func Parser[T interface{ String() string }](parse func(string) (T, error)) *Value[T] {
	return &Value[T]{parse: parse}
}

func (v *Value[T]) String() string {
	if v == nil || !v.set {
		return ""
	}
	return v.value.String()
}

func (v *Value[T]) Set(s string) error {
	parsed, err := v.parse(s)
	if err != nil {
		return err
	}
	v.value, v.set = parsed, true
	return nil
}

// Value is the parsed value, or zero when the flag is not given.
func (v *Value[T]) Value() T {
	return v.value
}

func (v *Value[T]) IsSet() bool {
	return v.set
}
