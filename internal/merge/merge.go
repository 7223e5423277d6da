// Package merge implements the deep merge used for configuration extension maps.
//
// Plain map[string]any values are merged recursively. Opaque values (cancellation
// contexts, byte payloads, readers, header collections, multipart forms) are never
// inspected and always replace the base value wholesale.
package merge

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Opaque marks a value that must be treated as an atomic unit by Merge.
type Opaque interface {
	MergeOpaque()
}

// IsOpaque reports whether v is replaced wholesale rather than merged.
func IsOpaque(v any) bool {
	switch v.(type) {
	case Opaque, context.Context, []byte, io.Reader, http.Header, url.Values, *multipart.Form:
		return true
	}
	return false
}

// Merge returns a new map holding base overlaid with override. Neither input is mutated.
func Merge(base, override map[string]any) map[string]any {
	result := Clone(base)
	if result == nil {
		result = make(map[string]any, len(override))
	}

	for key, value := range override {
		if IsOpaque(value) {
			result[key] = value
			continue
		}

		if nested, ok := value.(map[string]any); ok {
			existing, _ := result[key].(map[string]any)
			result[key] = Merge(existing, nested)
			continue
		}

		result[key] = value
	}

	return result
}

// Clone copies m, recursing into nested plain maps so the copy shares no map with m.
// Opaque values and slices are copied by reference.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok && !IsOpaque(v) {
			out[k] = Clone(nested)
			continue
		}
		out[k] = v
	}
	return out
}
