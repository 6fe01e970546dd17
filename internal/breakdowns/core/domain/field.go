package domain

// Field is a breakdown filter key with three states: absent, present but
// undefined, and present with a value. Consumers of the filter tell an
// absent key apart from an undefined one, so both survive a round trip.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Undefined returns a field that is present without a value.
func Undefined[T any]() Field[T] {
	return Field[T]{Set: true}
}

// Defined returns a field that is present with v.
func Defined[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Present returns a present field holding v, or undefined when v is nil.
func Present[T any](v *T) Field[T] {
	if v == nil {
		return Undefined[T]()
	}
	c := *v
	return Field[T]{Set: true, Value: &c}
}

func (f Field[T]) IsDefined() bool {
	return f.Set && f.Value != nil
}

// Get returns the value and whether one is defined.
func (f Field[T]) Get() (T, bool) {
	var zero T
	if !f.IsDefined() {
		return zero, false
	}
	return *f.Value, true
}

// Carry keeps the value of f but always marks the key present.
func (f Field[T]) Carry() Field[T] {
	return Present(f.Value)
}
