package domain

import (
	"bytes"
	"encoding/json"
)

// DecodeList decodes a collection payload that is either a bare JSON array
// or a {results, count} envelope. count falls back to the result length.
func DecodeList[T any](data []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, err
		}
		return items, len(items), nil
	}
	var env struct {
		Results []T  `json:"results"`
		Count   *int `json:"count"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, 0, err
	}
	if env.Results == nil {
		env.Results = []T{}
	}
	if env.Count == nil {
		return env.Results, len(env.Results), nil
	}
	return env.Results, *env.Count, nil
}
