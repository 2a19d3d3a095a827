package pocketbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose keys appear in the order the
// caller appended them. The canonical book encoding depends on that order
// being stable, which map-based marshaling cannot guarantee.
//
// The zero value is an empty object. The first error sticks and surfaces
// from MarshalJSON.
type jsonObjectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *jsonObjectWriter) comma() {
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.n++
}

// Append adds key:value, marshaling the value with encoding/json.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal field %q: %w", key, err)
		return w
	}
	w.comma()
	fmt.Fprintf(&w.buf, "%q:", key)
	w.buf.Write(raw)
	return w
}

// Optional is Append, skipped when the value is its type's zero value.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// Embed merges the fields of a raw JSON object into the one under
// construction, preserving their order.
func (w *jsonObjectWriter) Embed(raw []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	inner := bytes.TrimSpace(raw)
	if len(inner) >= 2 && inner[0] == '{' && inner[len(inner)-1] == '}' {
		inner = bytes.TrimSpace(inner[1 : len(inner)-1])
	}
	if len(inner) == 0 {
		return w
	}
	w.comma()
	w.buf.Write(inner)
	return w
}

// EmbedFrom marshals v and embeds the resulting object's fields.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal embedded value: %w", err)
		return w
	}
	return w.Embed(raw)
}

// MarshalJSON returns the object built so far.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	out = append(out, '}')
	return out, nil
}
