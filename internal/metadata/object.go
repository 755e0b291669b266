package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/caphetech/wfcatalog/internal/fsutil"
)

var errUnexpectedEnd = errors.New("unexpected end of JSON input")

// Object is a JSON object that remembers the order its keys were first seen.
// Values are kept raw so callers decide how (and whether) to decode them.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]json.RawMessage)}
}

// UnmarshalJSON decodes a JSON object, preserving key order.
// A repeated key keeps its first position and its last value.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return endError(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %s", describeToken(tok))
	}

	o.keys = o.keys[:0]
	o.values = make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return endError(err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return endError(err)
		}
		o.Set(key, raw)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return endError(err)
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after top-level object")
	}
	return nil
}

// MarshalJSON encodes the object with keys in their original order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := fsutil.EncodeJSON(key, false)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(o.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the raw value for key.
func (o *Object) Get(key string) (json.RawMessage, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set stores a raw value, appending key if it is new.
func (o *Object) Set(key string, value json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// SetValue encodes v without HTML escaping and stores it under key.
func (o *Object) SetValue(key string, v any) error {
	data, err := fsutil.EncodeJSON(v, false)
	if err != nil {
		return err
	}
	o.Set(key, data)
	return nil
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Truthy reports whether key holds a value JavaScript would treat as true.
// Absent keys, null, false, 0 and "" are falsy; empty arrays and objects are not.
func (o *Object) Truthy(key string) bool {
	raw, ok := o.Get(key)
	if !ok {
		return false
	}
	return truthy(raw)
}

func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '[', '{':
		return true
	case '"':
		return len(raw) > 2
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return false
		}
		return f != 0
	}
}

func endError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errUnexpectedEnd
	}
	return err
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "an array"
		}
		return string(v)
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}
