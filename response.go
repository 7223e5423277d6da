package fetchx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// maxMultipartMemory bounds the in-memory part of a decoded multipart response.
const maxMultipartMemory = 32 << 20

// Response is the parsed result of a successful request.
type Response struct {
	// Data holds the decoded body: any for JSON, string for text/*, *multipart.Form for
	// multipart/form-data and []byte otherwise. It is nil for empty bodies.
	Data       any
	Status     int
	StatusText string
	Header     http.Header
	Config     *RequestConfig
	// Body is the raw payload Data was decoded from.
	Body []byte
}

// IsSuccess reports whether Status is 2xx.
func (r *Response) IsSuccess() bool {
	return isSuccessStatus(r.Status)
}

// ContentType returns the Content-Type response header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// JSON looks up a gjson path in the raw body, e.g. "user.name" or "items.#.id".
func (r *Response) JSON(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Decode unmarshals the raw body of resp into a T.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, errors.New("fetchx: nil response")
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, err
	}
	return out, nil
}

func isSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, fmt.Sprintf("%d ", resp.StatusCode)); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// newResponse wraps resp without reading its body.
func newResponse(resp *http.Response, cfg *RequestConfig) *Response {
	return &Response{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Config:     cfg,
	}
}

// parseResponse materializes the body of raw once and decodes it by content type.
func parseResponse(raw *http.Response, cfg *RequestConfig) (*Response, error) {
	resp := newResponse(raw, cfg)
	if raw.Body == nil {
		return resp, nil
	}
	defer raw.Body.Close()

	body, err := io.ReadAll(raw.Body)
	if err != nil {
		return nil, err
	}
	resp.Body = body
	if len(body) == 0 {
		return resp, nil
	}

	contentType := raw.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		resp.Data = data
	case strings.Contains(contentType, "text/"):
		resp.Data = string(body)
	case strings.Contains(contentType, "multipart/form-data"):
		form, err := parseMultipart(contentType, body)
		if err != nil {
			return nil, err
		}
		resp.Data = form
	default:
		resp.Data = body
	}

	return resp, nil
}

func parseMultipart(contentType string, body []byte) (*multipart.Form, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, err
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, errors.New("fetchx: multipart response without boundary")
	}
	return multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxMultipartMemory)
}
