package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence and value of a JSON field.
// Go's pointer types cannot tell an absent key from an explicit null:
//   - Present=false: key absent from JSON
//   - Present=true, Value=nil: key is JSON null
//   - Present=true, Value=&v: key has a value
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
