package dish

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadField is one key of the submitted JSON object.
type PayloadField struct {
	Key   string
	Value any
}

// Payload is the flattened dish sent to the storage service: the scalar
// record fields followed by the attribute keys, in that order.
type Payload []PayloadField

// NewPayload flattens r into a Payload.
func NewPayload(r Record) Payload {
	p := Payload{
		{Key: FieldName, Value: r.Name},
		{Key: FieldPreparationTime, Value: r.PreparationTime},
		{Key: FieldType, Value: r.Type},
	}
	if r.Attributes == nil {
		return p
	}
	for _, key := range r.Attributes.Keys() {
		n, _ := r.Attributes.Get(key)
		p = append(p, PayloadField{Key: key, Value: n})
	}
	return p
}

// Get returns the value stored under key.
func (p Payload) Get(key string) (any, bool) {
	for _, f := range p {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the fields as one object, keeping their order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", f.Key, err)
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
