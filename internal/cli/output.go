package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/fatih/color"

	fetchx "github.com/PetitePluie-255/FetchX"
)

type printer struct {
	out, errOut io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

func newPrinter(out, errOut io.Writer, noColor bool) *printer {
	p := &printer{
		out:    out,
		errOut: errOut,
		green:  color.New(color.FgGreen, color.Bold),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) statusColor(status int) *color.Color {
	switch {
	case status >= 200 && status < 300:
		return p.green
	case status < 400:
		return p.yellow
	default:
		return p.red
	}
}

func (p *printer) status(resp *fetchx.Response) {
	line := fmt.Sprintf("%d %s", resp.Status, resp.StatusText)
	fmt.Fprintln(p.errOut, p.statusColor(resp.Status).Sprint(line))
}

// body writes the parsed payload, or the gjson match of query when one is given.
func (p *printer) body(resp *fetchx.Response, query string) error {
	if query != "" {
		result := resp.JSON(query)
		if !result.Exists() {
			return &exitError{code: ExitUsageError, err: fmt.Errorf("query %q matched nothing", query)}
		}
		if result.IsObject() || result.IsArray() {
			return p.writeJSON([]byte(result.Raw))
		}
		fmt.Fprintln(p.out, result.String())
		return nil
	}

	switch data := resp.Data.(type) {
	case nil:
		return nil
	case string:
		fmt.Fprintln(p.out, data)
	case []byte:
		_, err := p.out.Write(data)
		return err
	case *multipart.Form:
		for name, values := range data.Value {
			for _, v := range values {
				fmt.Fprintf(p.out, "%s=%s\n", p.bold.Sprint(name), v)
			}
		}
		for name, files := range data.File {
			for _, f := range files {
				fmt.Fprintf(p.out, "%s=@%s (%d bytes)\n", p.bold.Sprint(name), f.Filename, f.Size)
			}
		}
	default:
		return p.writeJSON(resp.Body)
	}
	return nil
}

func (p *printer) writeJSON(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = p.out.Write(raw)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(p.out)
	return err
}

// failure reports err and maps it to an exit code.
func (p *printer) failure(err error) error {
	var ce *fetchx.ClientError
	if errors.As(err, &ce) && ce.Response != nil {
		p.status(ce.Response)
	}
	if ce != nil {
		fmt.Fprintf(p.errOut, "%s %s\n", p.red.Sprint(ce.Code), ce.Message)
		if ce.Cause != nil {
			fmt.Fprintf(p.errOut, "  cause: %v\n", ce.Cause)
		}
	} else {
		fmt.Fprintf(p.errOut, "%s %v\n", p.red.Sprint("error"), err)
	}
	return &exitError{code: exitCodeFor(err), err: err, reported: true}
}
