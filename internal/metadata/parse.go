package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	wferrors "github.com/caphetech/wfcatalog/internal/errors"
)

// Document is a decoded metadata document: the typed view plus the raw
// top-level object it was decoded from.
type Document struct {
	Metadata

	// Raw keeps every top-level key in document order, including keys the
	// typed view does not model (support, setupInstructions, ...).
	Raw *Object
}

// DecodeError reports a document that is not a valid JSON object.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes every DecodeError match errors.ErrParse.
func (e *DecodeError) Is(target error) bool {
	return target == wferrors.ErrParse
}

// fields maps JSON keys to the typed destination they decode into.
// Keys are matched exactly; unknown keys are left in Raw only.
func (m *Metadata) fields() map[string]json.Unmarshaler {
	return map[string]json.Unmarshaler{
		"name":               &m.Name,
		"description":        &m.Description,
		"category":           &m.Category,
		"subcategory":        &m.Subcategory,
		"difficulty":         &m.Difficulty,
		"tags":               &m.Tags,
		"integrations":       &m.Integrations,
		"triggerType":        &m.TriggerType,
		"estimatedSetupTime": &m.EstimatedSetupTime,
		"pricing":            &m.Pricing,
		"version":            &m.Version,
		"author":             &m.Author,
		"lastUpdated":        &m.LastUpdated,
		"useCase":            &m.UseCase,
		"features":           &m.Features,
		"requirements":       &m.Requirements,
	}
}

// Parse decodes a metadata document.
// The top-level value must be a JSON object. Field values of an unexpected
// shape never fail the document.
func Parse(data []byte) (*Document, error) {
	raw := NewObject()
	if err := raw.UnmarshalJSON(data); err != nil {
		return nil, &DecodeError{Err: err}
	}

	doc := &Document{Raw: raw}
	fields := doc.Metadata.fields()
	for _, key := range raw.Keys() {
		dest, ok := fields[key]
		if !ok {
			continue
		}
		value, _ := raw.Get(key)
		if err := dest.UnmarshalJSON(value); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("field %q: %w", key, err)}
		}
	}

	return doc, nil
}

// LoadFile reads and parses the metadata document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &wferrors.MetadataError{
			Op:   "read",
			Path: path,
			Err:  fmt.Errorf("%w: %v", wferrors.ErrIO, err),
		}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, &wferrors.MetadataError{Op: "decode", Path: path, Err: err}
	}
	return doc, nil
}

// Has reports whether key is present at the top level, whatever its value.
func (d *Document) Has(key string) bool {
	_, ok := d.Raw.Get(key)
	return ok
}

// Truthy reports whether key holds a truthy value.
func (d *Document) Truthy(key string) bool {
	return d.Raw.Truthy(key)
}
