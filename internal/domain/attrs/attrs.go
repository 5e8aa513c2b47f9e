// Package attrs holds schema-less key/value metadata that must be rendered
// in the order it was written.
package attrs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value any
}

// Map is an insertion-ordered string-keyed map. The zero value is empty and usable.
type Map struct {
	keys   []string
	values map[string]any
}

// Set stores value under key. Overwriting keeps the original position.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Text returns the display form of the value stored under key.
func (m Map) Text(key string) string {
	return Format(m.values[key])
}

// Len returns the number of keys.
func (m Map) Len() int { return len(m.keys) }

// Keys returns keys in insertion order.
func (m Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Entries returns key/value pairs in insertion order.
func (m Map) Entries() []Entry {
	out := make([]Entry, len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry{Key: k, Value: m.values[k]}
	}
	return out
}

// Clone returns a copy that shares no key slice with m.
func (m Map) Clone() Map {
	var c Map
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// ParseJSON decodes a JSON object keeping key order. Blank input yields an
// empty map. Numbers are kept as json.Number so integers print unchanged.
func ParseJSON(s string) (Map, error) {
	var m Map
	if strings.TrimSpace(s) == "" {
		return m, nil
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Map{}, fmt.Errorf("read object start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Map{}, errors.New("expected JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Map{}, fmt.Errorf("read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Map{}, fmt.Errorf("unexpected key token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return Map{}, fmt.Errorf("decode value for %q: %w", key, err)
		}
		m.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return Map{}, fmt.Errorf("read object end: %w", err)
	}
	return m, nil
}

// Format renders a value for display. nil renders as "".
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
