// Package metadata decodes per-workflow metadata documents.
//
// A metadata document is a JSON object describing one workflow
// (workflows/<...>/<id>-metadata.json). Decoding is tolerant in the same
// places a browser-side consumer would be: scalar fields accept strings,
// numbers and booleans, author accepts a string or an {name,url} object and
// features accepts either a list or a keyed mapping. A value whose shape the
// typed view cannot render (an object where text is expected, say) decodes
// to the empty value; its truthiness is still read from the raw object.
// Only JSON syntax errors fail a document.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/caphetech/wfcatalog/internal/fsutil"
)

// Metadata is the typed view of a metadata document.
type Metadata struct {
	Name               Text       `json:"name"`
	Description        Text       `json:"description"`
	Category           Text       `json:"category"`
	Subcategory        Text       `json:"subcategory"`
	Difficulty         Text       `json:"difficulty"`
	Tags               StringList `json:"tags"`
	Integrations       StringList `json:"integrations"`
	TriggerType        Text       `json:"triggerType"`
	EstimatedSetupTime Text       `json:"estimatedSetupTime"`
	Pricing            Pricing    `json:"pricing"`
	Version            Text       `json:"version"`
	Author             Author     `json:"author"`
	LastUpdated        Text       `json:"lastUpdated"`
	UseCase            Text       `json:"useCase"`
	Features           Features   `json:"features"`
	Requirements       StringList `json:"requirements"`
}

// Text is a scalar field rendered as a string.
// Strings decode as-is; numbers and true keep their literal text;
// null, false and 0 decode to "" so that empty means "use the default".
// Objects and arrays also decode to "".
type Text string

// String returns the text.
func (t Text) String() string { return string(t) }

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 'n', 'f', '[', '{':
		*t = ""
	case 't':
		*t = "true"
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("expected a string, got %s", data)
		}
		if f == 0 {
			*t = ""
			return nil
		}
		*t = Text(data)
	}
	return nil
}

// StringList is a JSON array of scalars. Any other value decodes to an
// empty list; object and array items are dropped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	out := make(StringList, 0, len(items))
	for _, item := range items {
		s, ok := scalarString(item)
		if !ok {
			continue
		}
		out = append(out, s)
	}
	*l = out
	return nil
}

// Author is either a plain name or an {name,url} object.
type Author struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// String returns the author's display name.
func (a Author) String() string { return a.Name }

// UnmarshalJSON implements json.Unmarshaler.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Name Text `json:"name"`
			URL  Text `json:"url"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*a = Author{Name: obj.Name.String(), URL: obj.URL.String()}
		return nil
	}

	var name Text
	if err := name.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = Author{Name: name.String()}
	return nil
}

// MarshalJSON writes a bare string when there is no URL.
func (a Author) MarshalJSON() ([]byte, error) {
	if a.URL == "" {
		return fsutil.EncodeJSON(a.Name, false)
	}
	type plain Author
	return fsutil.EncodeJSON(plain(a), false)
}

// Pricing holds the optional pricing block.
type Pricing struct {
	EstimatedMonthlyCost Text `json:"estimatedMonthlyCost,omitempty"`
}

// UnmarshalJSON accepts any value; only an object contributes a cost.
func (p *Pricing) UnmarshalJSON(data []byte) error {
	*p = Pricing{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	if raw, ok := obj.Get("estimatedMonthlyCost"); ok {
		var cost Text
		if err := cost.UnmarshalJSON(raw); err == nil {
			p.EstimatedMonthlyCost = cost
		}
	}
	return nil
}

// Features is the features field in either of its two accepted shapes:
// a list of strings or a mapping of feature key to description. Both are
// flattened into Items at decode time; Keyed records which shape was seen.
type Features struct {
	Items []string
	Keyed bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Features) UnmarshalJSON(data []byte) error {
	*f = Features{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		var list StringList
		if err := list.UnmarshalJSON(data); err != nil {
			return err
		}
		f.Items = list
	case '{':
		var obj Object
		if err := obj.UnmarshalJSON(data); err != nil {
			return err
		}
		f.Keyed = true
		for _, key := range obj.Keys() {
			raw, _ := obj.Get(key)
			if s, ok := scalarString(raw); ok {
				f.Items = append(f.Items, s)
			}
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			f.Items = []string{s}
		}
	}
	return nil
}

// MarshalJSON always writes the flattened list.
func (f Features) MarshalJSON() ([]byte, error) {
	if f.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f.Items)
}

// scalarString renders a list element as text. Unlike Text, a numeric zero
// stays "0": list elements are values, not optional fields. Objects and
// arrays are not rendered.
func scalarString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '[', '{':
		return "", false
	default:
		return string(raw), true
	}
}
