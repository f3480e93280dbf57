// Package jsonutil provides JSON helpers for the story cache and the CLI.
//
// The cache keeps list and object columns (tag names, submitters) as
// JSON text; these helpers convert them in both directions.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// PrettyJSON formats a JSON string with indentation for display.
// Returns the original string if it's not valid JSON.
func PrettyJSON(s string) string {
	var obj interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return s
	}
	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return s
	}
	return string(pretty)
}

// MustMarshal marshals a value to JSON, panicking on error.
// Use only for values known to be marshalable (e.g., maps, slices).
func MustMarshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("jsonutil.MustMarshal: %v", err))
	}
	return string(b)
}

// StringSlice decodes a JSON array of strings. Empty input and JSON null
// give an empty, non-nil slice.
func StringSlice(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
