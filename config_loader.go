package fetchx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// fileConfig is the on-disk and environment shape of Config. Timeouts are integer
// milliseconds; unknown keys are collected into Extra.
type fileConfig struct {
	BaseURL     string            `mapstructure:"baseURL"`
	URL         string            `mapstructure:"url"`
	Headers     map[string]string `mapstructure:"headers"`
	Params      map[string]any    `mapstructure:"params"`
	Timeout     int64             `mapstructure:"timeout"`
	Credentials string            `mapstructure:"credentials"`
	Extra       map[string]any    `mapstructure:",remain"`
}

// ConfigFromMap decodes a plain mapping using the reserved keys baseURL, url, headers,
// params, timeout (milliseconds) and credentials. Remaining keys become Extra.
func ConfigFromMap(input map[string]any) (Config, error) {
	var fc fileConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fc,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if fc.Timeout < 0 {
		return Config{}, fmt.Errorf("%w: timeout must be non-negative, got %d", ErrInvalidConfig, fc.Timeout)
	}
	creds := Credentials(fc.Credentials)
	if creds != "" && !creds.Valid() {
		return Config{}, fmt.Errorf("%w: unknown credentials policy %q", ErrInvalidConfig, fc.Credentials)
	}

	cfg := Config{
		BaseURL:     fc.BaseURL,
		URL:         fc.URL,
		Headers:     fc.Headers,
		Timeout:     time.Duration(fc.Timeout) * time.Millisecond,
		Credentials: creds,
	}
	if len(fc.Params) > 0 {
		cfg.Params = ParamsFromMap(fc.Params)
	}
	if len(fc.Extra) > 0 {
		cfg.Extra = fc.Extra
	}
	return cfg, nil
}

// LoadConfig reads client defaults from a YAML, TOML or JSON file. Environment variables
// prefixed with FETCHX_ (FETCHX_BASEURL, FETCHX_TIMEOUT, FETCHX_CREDENTIALS) override file
// values. An empty path loads from the environment only.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FETCHX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"baseURL", "timeout", "credentials"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config file not found: %w", err)
			}
			return Config{}, fmt.Errorf("error reading config: %w", err)
		}
	}

	// viper lower-cases keys; mapstructure matches field names case-insensitively.
	return ConfigFromMap(v.AllSettings())
}
