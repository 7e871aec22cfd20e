package harness

import "fmt"

// Opt is a value that may be absent. The zero value is absent.
//
// Opt keeps "no data" apart from values that are present but degenerate
// (0, NaN); callers never see a placeholder number for a missing field.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, ok: true}
}

// None returns an absent Opt.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSet reports whether the value is present.
func (o Opt[T]) IsSet() bool {
	return o.ok
}

// Or returns the value if present, otherwise def.
func (o Opt[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// String renders the value with %v, or the empty string when absent.
func (o Opt[T]) String() string {
	if !o.ok {
		return ""
	}
	return fmt.Sprint(o.v)
}
