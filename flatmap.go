package structguard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlatMap is the editable surface of an extraction: node IDs mapped to
// their text segments. Unlike a Go map it preserves insertion order, so
// marshalled output lists node_0, node_1, ... in document order and a
// decode/encode round trip is stable.
type FlatMap struct {
	ids    []string
	values map[string]string
}

// NewFlatMap returns an empty FlatMap.
func NewFlatMap() *FlatMap {
	return &FlatMap{values: make(map[string]string)}
}

// Set stores text under id, appending id to the order on first insert.
func (m *FlatMap) Set(id, text string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.values[id] = text
}

// Get returns the text stored under id.
func (m *FlatMap) Get(id string) (string, bool) {
	text, ok := m.values[id]
	return text, ok
}

// Has reports whether id is present.
func (m *FlatMap) Has(id string) bool {
	_, ok := m.values[id]
	return ok
}

// Len returns the number of entries.
func (m *FlatMap) Len() int {
	return len(m.ids)
}

// IDs returns the node IDs in insertion order. The returned slice is
// shared; callers must not modify it.
func (m *FlatMap) IDs() []string {
	return m.ids
}

// MarshalJSON encodes the map as a JSON object with keys in insertion
// order.
func (m *FlatMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving the key order of the
// input. Values must be strings.
func (m *FlatMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return Errorf(EINVALID, "flat map must be a JSON object: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "flat map must be a JSON object, got %v", tok)
	}
	m.ids = nil
	m.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Errorf(EINVALID, "flat map key: %v", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Errorf(EINVALID, "flat map key must be a string, got %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return Errorf(EINVALID, "flat map value for %q: %v", key, err)
		}
		val, ok := valTok.(string)
		if !ok {
			return &Error{
				Code:    EINVALID,
				Message: fmt.Sprintf("flat map value for %q must be a string, got %v", key, valTok),
				NodeID:  key,
			}
		}
		m.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return Errorf(EINVALID, "flat map close: %v", err)
	}
	return nil
}
