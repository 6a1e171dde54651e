package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bookit/bookit-web/pkg/logger"
	"go.uber.org/zap"
)

// The BookIt API is loose about scalar types: numbers arrive as strings,
// booleans as 0/1 or "Si"/"No", lists as objects keyed "0", "1", ...
// The types below accept every shape seen in the wild.

// Text is a string that also accepts JSON numbers and booleans
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(data)
	}
	return nil
}

// Number is a float that also accepts numeric strings; anything else decodes as 0
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Flag is a bool that also accepts 0/1 and yes/no spellings
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "si", "sí", "yes", "y", "s":
		*f = true
	default:
		*f = false
	}
	return nil
}

// IndexedList decodes either a JSON array or an object keyed by position
// ({"0": ..., "1": ...}) into an ordered slice. Scalars and null decode as empty,
// and items that do not fit T are dropped so one odd entry never loses the rest.
// It always encodes as an array.
type IndexedList[T any] []T

func (l *IndexedList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*l = IndexedList[T]{}
		return nil
	}

	var raw []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(data, &keyed); err != nil {
			return err
		}
		raw = make([]json.RawMessage, 0, len(keyed))
		for _, key := range OrderedKeys(keyed) {
			raw = append(raw, keyed[key])
		}
	}

	items := make(IndexedList[T], 0, len(raw))
	for i, entry := range raw {
		var item T
		if err := json.Unmarshal(entry, &item); err != nil {
			logger.Debug("Skipping list entry of unexpected shape",
				zap.Int("position", i),
				zap.String("type", fmt.Sprintf("%T", item)),
				zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	*l = items
	return nil
}

func (l IndexedList[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}

// OrderedKeys returns map keys the way a JavaScript engine enumerates them:
// non-negative integer keys ascending first, then the remaining keys sorted.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		ni, iNumeric := arrayIndex(keys[i])
		nj, jNumeric := arrayIndex(keys[j])
		switch {
		case iNumeric && jNumeric:
			return ni < nj
		case iNumeric != jNumeric:
			return iNumeric
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}
