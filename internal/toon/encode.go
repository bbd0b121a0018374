// Package toon implements a compact, token-minimizing encoder for LLM
// prompts (Token-Oriented Object Notation): https://github.com/toon-format/toon
package toon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Pair is a single key/value entry in an Object, preserving the insertion
// order a Go map cannot.
type Pair struct {
	Key   string
	Value any
}

// Object is an ordered associative structure, the TOON analogue of a
// Python dict literal built field-by-field.
type Object []Pair

// Encode renders v as TOON. Supported value kinds: nil, bool, any numeric
// type, string, []any, Object, and map[string]any (encoded with
// lexicographically sorted keys, since a Go map carries no ordering of its
// own — callers that need a specific key order should build an Object).
func Encode(v any) string {
	return encode(v, 0)
}

func encode(v any, indent int) string {
	prefix := strings.Repeat(" ", indent)

	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return encodeString(val)
	case Object:
		return encodeObject(val, indent)
	case map[string]any:
		return encodeObject(sortedObject(val), indent)
	case []any:
		return encodeList(val, prefix, indent)
	default:
		if n, ok := asNumber(val); ok {
			return n
		}
		return fmt.Sprintf("%v", val)
	}
}

func asNumber(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case float32:
		return formatFloat(float64(n)), true
	case float64:
		return formatFloat(n), true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func encodeString(s string) string {
	if strings.ContainsAny(s, ",:\n\"'") {
		escaped := strings.ReplaceAll(s, `"`, `\"`)
		return `"` + escaped + `"`
	}
	return s
}

func sortedObject(m map[string]any) Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := make(Object, len(keys))
	for i, k := range keys {
		obj[i] = Pair{Key: k, Value: m[k]}
	}
	return obj
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, bool, string, int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func encodeList(items []any, prefix string, indent int) string {
	if len(items) == 0 {
		return "[]"
	}

	allPrimitive := true
	for _, item := range items {
		if !isPrimitive(item) {
			allPrimitive = false
			break
		}
	}
	if allPrimitive {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = encode(item, indent)
		}
		return fmt.Sprintf("[%d]: %s", len(items), strings.Join(parts, ","))
	}

	if keys, ok := uniformObjectKeys(items); ok {
		header := fmt.Sprintf("[%d]{%s}:", len(items), strings.Join(keys, ","))
		rows := make([]string, 0, len(items))
		for _, item := range items {
			obj := asObject(item)
			values := make([]string, len(keys))
			for i, k := range keys {
				values[i] = encode(lookup(obj, k), indent)
			}
			rows = append(rows, fmt.Sprintf("%s %s", prefix, strings.Join(values, ",")))
		}
		return header + "\n" + strings.Join(rows, "\n")
	}

	lines := []string{fmt.Sprintf("[%d]:", len(items))}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %s", prefix, encode(item, indent+2)))
	}
	return strings.Join(lines, "\n")
}

func asObject(v any) Object {
	switch val := v.(type) {
	case Object:
		return val
	case map[string]any:
		return sortedObject(val)
	default:
		return nil
	}
}

func lookup(obj Object, key string) any {
	for _, p := range obj {
		if p.Key == key {
			return p.Value
		}
	}
	return nil
}

func keySet(obj Object) map[string]bool {
	set := make(map[string]bool, len(obj))
	for _, p := range obj {
		set[p.Key] = true
	}
	return set
}

func sameKeySet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// uniformObjectKeys reports whether every item is object-like and shares
// the same key set, returning the first item's key order if so.
func uniformObjectKeys(items []any) ([]string, bool) {
	first := asObject(items[0])
	if first == nil {
		return nil, false
	}
	firstKeys := make([]string, len(first))
	for i, p := range first {
		firstKeys[i] = p.Key
	}
	wantSet := keySet(first)

	for _, item := range items {
		obj := asObject(item)
		if obj == nil {
			return nil, false
		}
		if !sameKeySet(keySet(obj), wantSet) {
			return nil, false
		}
	}
	return firstKeys, true
}

func encodeObject(obj Object, indent int) string {
	if len(obj) == 0 {
		return "{}"
	}
	prefix := strings.Repeat(" ", indent)
	var lines []string

	for _, pair := range obj {
		switch val := pair.Value.(type) {
		case Object:
			if len(val) == 0 {
				lines = append(lines, fmt.Sprintf("%s: %s", pair.Key, encode(val, indent)))
				continue
			}
			lines = append(lines, pair.Key+":")
			for _, sub := range val {
				lines = append(lines, fmt.Sprintf("%s  %s: %s", prefix, sub.Key, encode(sub.Value, indent+2)))
			}
		case map[string]any:
			nested := sortedObject(val)
			if len(nested) == 0 {
				lines = append(lines, fmt.Sprintf("%s: {}", pair.Key))
				continue
			}
			lines = append(lines, pair.Key+":")
			for _, sub := range nested {
				lines = append(lines, fmt.Sprintf("%s  %s: %s", prefix, sub.Key, encode(sub.Value, indent+2)))
			}
		case []any:
			if keys, ok := uniformObjectKeysNonEmpty(val); ok {
				header := fmt.Sprintf("%s[%d]{%s}:", pair.Key, len(val), strings.Join(keys, ","))
				lines = append(lines, header)
				for _, item := range val {
					obj := asObject(item)
					values := make([]string, len(keys))
					for i, k := range keys {
						values[i] = encode(lookup(obj, k), indent)
					}
					lines = append(lines, fmt.Sprintf("%s  %s", prefix, strings.Join(values, ",")))
				}
			} else {
				lines = append(lines, fmt.Sprintf("%s: %s", pair.Key, encode(val, indent)))
			}
		default:
			lines = append(lines, fmt.Sprintf("%s: %s", pair.Key, encode(pair.Value, indent)))
		}
	}
	return strings.Join(lines, "\n")
}

func uniformObjectKeysNonEmpty(items []any) ([]string, bool) {
	if len(items) == 0 {
		return nil, false
	}
	for _, item := range items {
		if asObject(item) == nil {
			return nil, false
		}
	}
	return uniformObjectKeys(items)
}
