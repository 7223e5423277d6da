package fetchx

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// SerializeParams encodes params in insertion order. Slice and array values repeat the
// key once per element; nil values are dropped.
func SerializeParams(params Params) string {
	var b strings.Builder
	write := func(key string, value any) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fmt.Sprint(value)))
	}

	for _, p := range params {
		if isNil(p.Value) {
			continue
		}
		if s, ok := p.Value.(string); ok {
			write(p.Key, s)
			continue
		}
		rv := reflect.ValueOf(p.Value)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				write(p.Key, rv.Index(i).Interface())
			}
			continue
		}
		write(p.Key, p.Value)
	}

	return b.String()
}

// BuildURL joins baseURL and path with exactly one slash and appends the serialized
// params with '?' or '&' depending on whether path already carries a query string.
func BuildURL(baseURL, path string, params Params) string {
	full := path
	if baseURL != "" {
		full = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	if len(params) > 0 {
		if query := SerializeParams(params); query != "" {
			sep := "?"
			if strings.Contains(full, "?") {
				sep = "&"
			}
			full += sep + query
		}
	}

	return full
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
