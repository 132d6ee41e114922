package models

import "encoding/json"

// Optional distinguishes a field absent from a request body from one
// explicitly set to null and from one carrying a value. Plain pointers
// collapse the first two cases, which breaks PATCH semantics: "absent"
// must leave the column alone while "null" must clear it.
type Optional[T any] struct {
	Set   bool // field appeared in the JSON object
	Valid bool // field carried a non-null value
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero lets `json:",omitzero"` drop absent fields from request
// bodies, so a marshalled Optional round-trips the absent case too.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Some wraps a value as a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null is a present, explicitly-null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
