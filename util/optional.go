package util

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	item   T
	exists bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		item:   v,
		exists: true,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (me Optional[T]) Unpack() (T, bool) {
	return me.item, me.exists
}

func (me Optional[T]) Exists() bool {
	return me.exists
}

func (me Optional[T]) Or(defaultValue T) T {
	if me.exists {
		return me.item
	}
	return defaultValue
}

// OrIfZero treats a present zero value as absent, which is what CLI flags with a zero default
// produce.
func OrIfZero[T comparable](me Optional[T], defaultValue T) T {
	var zero T
	if value, ok := me.Unpack(); ok && value != zero {
		return value
	}
	return defaultValue
}
