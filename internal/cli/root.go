package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	fetchx "github.com/PetitePluie-255/FetchX"
)

type options struct {
	configFile  string
	baseURL     string
	timeout     time.Duration
	headers     []string
	params      []string
	data        string
	credentials string
	query       string
	debug       bool
	noColor     bool
}

// exitError carries the process exit code out of a command. reported is set once the
// error has already been written to stderr.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the CLI against os.Args and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := ExitUsageError
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		if ee.reported {
			return code
		}
	}
	fmt.Fprintln(stderr, "Error:", err)
	return code
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "fetchx",
		Short: "Send HTTP requests through the fetchx client pipeline",
		Long: `fetchx sends a single HTTP request using the fetchx client: defaults from a
config file and FETCHX_* environment variables, per-call overrides from flags,
timeout and cancellation handling, and classified errors.`,
		Version:       fetchx.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (YAML, TOML or JSON)")
	flags.StringVar(&opts.baseURL, "base-url", "", "base URL joined with the request path")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout (0 keeps the configured default)")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	flags.StringArrayVarP(&opts.params, "param", "p", nil, "query parameter as key=value (repeatable)")
	flags.StringVar(&opts.credentials, "credentials", "", "cookie policy: omit, same-origin or include")
	flags.StringVar(&opts.query, "query", "", "gjson path extracted from a JSON response")
	flags.BoolVar(&opts.debug, "debug", false, "log the request pipeline to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	for _, method := range []string{fetchx.MethodGet, fetchx.MethodDelete, fetchx.MethodHead} {
		root.AddCommand(newRequestCmd(method, false, opts))
	}
	for _, method := range []string{fetchx.MethodPost, fetchx.MethodPut, fetchx.MethodPatch} {
		root.AddCommand(newRequestCmd(method, true, opts))
	}

	return root
}

// newLogger builds the debug logger written to stderr.
func newLogger(w io.Writer, noColor bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func parseHeader(raw string) (string, string, error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid header %q, expected 'Name: value'", raw)
	}
	return name, strings.TrimSpace(value), nil
}

func parseParam(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid param %q, expected key=value", raw)
	}
	return key, value, nil
}
