package fetchx

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/PetitePluie-255/FetchX/internal/merge"
)

// NoTimeout, set as an override timeout, disables a timeout inherited from the defaults.
const NoTimeout time.Duration = -1

// Config is the option set shared by client defaults and per-call overrides.
type Config struct {
	BaseURL     string
	URL         string
	Headers     map[string]string
	Params      Params
	Timeout     time.Duration
	Credentials Credentials
	// Extra holds arbitrary transport options. Nested map[string]any values are merged
	// recursively; opaque values such as contexts or byte payloads replace wholesale.
	Extra map[string]any
}

// DefaultConfig returns the defaults applied by New before any option.
func DefaultConfig() Config {
	return Config{
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Credentials: CredentialsSameOrigin,
	}
}

// EffectiveTimeout resolves NoTimeout and negative values to zero.
func (c Config) EffectiveTimeout() time.Duration {
	if c.Timeout < 0 {
		return 0
	}
	return c.Timeout
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	return Merge(c, Config{})
}

// Merge overlays override onto base and returns a fresh Config. Neither argument is
// mutated and the result shares no maps with them. Header names are canonicalized so
// "content-type" and "Content-Type" address the same entry.
func Merge(base, override Config) Config {
	out := Config{
		BaseURL:     base.BaseURL,
		URL:         base.URL,
		Timeout:     base.Timeout,
		Credentials: base.Credentials,
	}

	if override.BaseURL != "" {
		out.BaseURL = override.BaseURL
	}
	if override.URL != "" {
		out.URL = override.URL
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	if override.Credentials != "" {
		out.Credentials = override.Credentials
	}

	if base.Headers != nil || override.Headers != nil {
		out.Headers = make(map[string]string, len(base.Headers)+len(override.Headers))
		for k, v := range base.Headers {
			out.Headers[http.CanonicalHeaderKey(k)] = v
		}
		for k, v := range override.Headers {
			out.Headers[http.CanonicalHeaderKey(k)] = v
		}
	}

	out.Params = base.Params.merge(override.Params)

	if base.Extra != nil || override.Extra != nil {
		out.Extra = merge.Merge(base.Extra, override.Extra)
	}

	return out
}

// Param is a single query parameter. Slice values repeat the key once per element and
// nil values are dropped at serialization time.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of query parameters; serialization follows insertion order.
type Params []Param

// ParamsOf builds Params from alternating keys and values. A trailing key without a
// value is ignored.
func ParamsOf(kv ...any) Params {
	p := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		p = p.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return p
}

// ParamsFromMap converts m to Params with keys in sorted order.
func ParamsFromMap(m map[string]any) Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := make(Params, 0, len(keys))
	for _, k := range keys {
		p = append(p, Param{Key: k, Value: m[k]})
	}
	return p
}

// Set replaces the value of key in place, or appends it when absent.
func (p Params) Set(key string, value any) Params {
	for i := range p {
		if p[i].Key == key {
			out := append(Params(nil), p...)
			out[i].Value = value
			return out
		}
	}
	return append(append(Params(nil), p...), Param{Key: key, Value: value})
}

// Add appends key even when it already exists.
func (p Params) Add(key string, value any) Params {
	return append(append(Params(nil), p...), Param{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (p Params) Get(key string) (any, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return nil, false
}

func (p Params) merge(override Params) Params {
	if p == nil && override == nil {
		return nil
	}
	out := append(Params(nil), p...)
	for _, param := range override {
		out = out.Set(param.Key, param.Value)
	}
	return out
}

// RequestConfig describes one request as it travels through the request interceptors.
type RequestConfig struct {
	Config
	Method string
	Body   any
}
