package bookit

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Payload is a decoded BookIt response object. Bodies that are not JSON
// objects decode as an empty Payload, never as an error.
type Payload map[string]any

// DecodePayload parses body into a Payload. Numbers are kept as json.Number.
func DecodePayload(body []byte) Payload {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Payload{}
	}
	if obj, ok := v.(map[string]any); ok {
		return Payload(obj)
	}
	return Payload{}
}

// Text returns the first of keys holding a non-empty string
func (p Payload) Text(keys ...string) string {
	for _, key := range keys {
		if s, ok := p[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Scalar returns the first of keys holding a truthy string, number or bool,
// rendered as a string. Falsy values ("", 0, false, null) are skipped.
func (p Payload) Scalar(keys ...string) string {
	for _, key := range keys {
		if !truthy(p[key]) {
			continue
		}
		switch v := p[key].(type) {
		case string:
			return v
		case json.Number:
			return v.String()
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// Truthy reports whether key holds a value JavaScript would treat as true
func (p Payload) Truthy(key string) bool {
	return truthy(p[key])
}

// Object returns the nested object stored under key
func (p Payload) Object(key string) (Payload, bool) {
	obj, ok := p[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Payload(obj), true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
