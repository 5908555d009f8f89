package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Feed payload values arrive as numbers, strings, or nested objects with
// no schema guarantees, so JSON documents are decoded into generic maps
// with UseNumber to keep numeric counts as their exact source text. The
// dig helpers walk those maps and stringify leaves for the normalization
// pipeline, which owns all count coercion.

func decodeJSON(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feed json: %w", err)
	}
	return doc, nil
}

func decodeJSONList(body []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var list []any
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("decode feed json list: %w", err)
	}
	return list, nil
}

// digMap descends through nested objects by key.
func digMap(doc map[string]any, keys ...string) (map[string]any, error) {
	cur := doc
	for _, key := range keys {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("feed payload missing object %q", key)
		}
		cur = next
	}
	return cur, nil
}

// digList returns the array at key.
func digList(doc map[string]any, key string) ([]any, error) {
	list, ok := doc[key].([]any)
	if !ok {
		return nil, fmt.Errorf("feed payload missing list %q", key)
	}
	return list, nil
}

// digString stringifies the leaf at key. json.Number values keep their
// source text, so "1204" stays "1204" rather than becoming a float.
func digString(doc map[string]any, key string) (string, error) {
	v, ok := doc[key]
	if !ok {
		return "", fmt.Errorf("feed payload missing value %q", key)
	}
	return leafString(v), nil
}

func leafString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
