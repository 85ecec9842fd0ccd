// Package patch models tri-state fields for partial updates: a field in a
// request body is either absent, explicitly null, or set to a value. JSON
// decoding alone cannot distinguish the first two, so update payloads decode
// into Field values whose UnmarshalJSON records presence.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is one tri-state update field. The zero value means "absent".
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set returns a field explicitly set to value.
func Set[T any](value T) Field[T] {
	return Field[T]{Present: true, Value: value}
}

// Null returns a field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what makes the absent/null distinction observable.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Get returns the value and whether it was explicitly set (non-null).
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Present && !f.Null
}
