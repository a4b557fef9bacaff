// Package persist implements the persistence adapters of the tab manager and the
// encoding of the persisted order.
package persist

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jmgilman/go/errors"
)

// KeyPrefix is the fixed prefix of the storage key; the namespace follows a colon.
const KeyPrefix = "__keepalive_tabs_list__"

// DefaultNamespace is used when no namespace is configured.
const DefaultNamespace = "default"

// StorageKey returns "<prefix>:<namespace>".
func StorageKey(namespace string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return KeyPrefix + ":" + namespace
}

// EncodeOrder serializes an order sequence as a JSON array of strings.
func EncodeOrder(keys []string) string {
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		// A []string always marshals.
		panic(err)
	}
	return string(data)
}

/*
DecodeOrder parses a persisted order. Array elements that are not strings are
stringified (numbers, booleans, null) rather than rejected; the caller normalizes.

An empty input decodes to an empty list. Anything that is not a JSON array is an
error, which callers treat as a cold start.
*/
func DecodeOrder(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "persisted tab order is not a JSON array")
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, stringify(it))
	}
	return out, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
