package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	fetchx "github.com/PetitePluie-255/FetchX"
)

func newRequestCmd(method string, withBody bool, opts *options) *cobra.Command {
	use := strings.ToLower(method) + " <url>"
	short := fmt.Sprintf("Send a %s request", method)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runRequest(ctx, cmd, method, args[0], opts)
		},
	}

	if withBody {
		cmd.Flags().StringVarP(&opts.data, "data", "d", "", "request body, sent as JSON when it parses and as text otherwise")
	}

	return cmd
}

func runRequest(ctx context.Context, cmd *cobra.Command, method, target string, opts *options) error {
	clientOpts, err := clientOptions(cmd, opts)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	client := fetchx.New(clientOpts...)
	if !client.IsValid() {
		return &exitError{code: ExitConfigError, err: client.ValidationError()}
	}

	var body any
	var bodyOpts []fetchx.RequestOption
	if opts.data != "" {
		var isJSON bool
		body, isJSON = parseBody(opts.data)
		if !isJSON {
			bodyOpts = append(bodyOpts, fetchx.WithRequestHeader("Content-Type", "text/plain; charset=utf-8"))
		}
	}

	reqOpts, err := requestOptions(opts)
	if err != nil {
		return &exitError{code: ExitUsageError, err: err}
	}
	reqOpts = append(bodyOpts, reqOpts...)

	printer := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.noColor)

	resp, err := client.Request(ctx, method, target, body, reqOpts...)
	if err != nil {
		return printer.failure(err)
	}

	printer.status(resp)
	return printer.body(resp, opts.query)
}

// clientOptions layers the config file, FETCHX_* environment and persistent flags.
func clientOptions(cmd *cobra.Command, opts *options) ([]fetchx.Option, error) {
	cfg, err := fetchx.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}

	clientOpts := []fetchx.Option{fetchx.WithConfig(cfg)}
	if opts.baseURL != "" {
		clientOpts = append(clientOpts, fetchx.WithBaseURL(opts.baseURL))
	}
	if opts.timeout > 0 {
		clientOpts = append(clientOpts, fetchx.WithTimeout(opts.timeout))
	}
	if opts.credentials != "" {
		clientOpts = append(clientOpts, fetchx.WithCredentials(fetchx.Credentials(opts.credentials)))
	}
	if opts.debug {
		logger := newLogger(cmd.ErrOrStderr(), opts.noColor)
		logger.Debug().Fields(toFields(fetchx.GetVersionInfo())).Msg("fetchx client")
		clientOpts = append(clientOpts,
			fetchx.WithDebug(),
			fetchx.WithLogger(fetchx.NewZerologLogger(logger)),
		)
	}
	return clientOpts, nil
}

func requestOptions(opts *options) ([]fetchx.RequestOption, error) {
	var reqOpts []fetchx.RequestOption
	for _, raw := range opts.headers {
		name, value, err := parseHeader(raw)
		if err != nil {
			return nil, err
		}
		reqOpts = append(reqOpts, fetchx.WithRequestHeader(name, value))
	}

	// Repeated keys are grouped so they serialize as key=a&key=b in first-seen order.
	var keys []string
	values := make(map[string][]string)
	for _, raw := range opts.params {
		key, value, err := parseParam(raw)
		if err != nil {
			return nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = append(values[key], value)
	}

	var params fetchx.Params
	for _, key := range keys {
		if vs := values[key]; len(vs) == 1 {
			params = params.Add(key, vs[0])
		} else {
			params = params.Add(key, vs)
		}
	}
	if len(params) > 0 {
		reqOpts = append(reqOpts, fetchx.WithParams(params))
	}
	return reqOpts, nil
}

// parseBody sends data as raw JSON when it is valid JSON and as text otherwise.
func parseBody(data string) (any, bool) {
	if !json.Valid([]byte(data)) {
		return data, false
	}
	return json.RawMessage(data), true
}

func exitCodeFor(err error) int {
	var ce *fetchx.ClientError
	if !errors.As(err, &ce) {
		if errors.Is(err, fetchx.ErrRateLimited) {
			return ExitCanceled
		}
		return ExitNetworkError
	}
	switch ce.Code {
	case fetchx.CodeBadResponse:
		return ExitBadResponse
	case fetchx.CodeTimeout, fetchx.CodeCanceled:
		return ExitCanceled
	default:
		return ExitNetworkError
	}
}

func toFields(m map[string]string) map[string]any {
	fields := make(map[string]any, len(m))
	for k, v := range m {
		fields[k] = v
	}
	return fields
}
