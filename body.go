package fetchx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// SerializeBody converts body into a wire payload.
//
// nil yields no payload. Byte slices and readers pass through untouched, as do
// *FormData and url.Values, which are encoded with their own content type. Strings are
// sent verbatim, other primitives are stringified and everything else is JSON encoded.
// The returned content type is empty unless the payload dictates one.
func SerializeBody(body any) (io.Reader, string, error) {
	if isNil(body) {
		return nil, "", nil
	}

	switch b := body.(type) {
	case []byte:
		return bytes.NewReader(b), "", nil
	case *FormData:
		return b.Encode()
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case io.Reader:
		return b, "", nil
	case string:
		return strings.NewReader(b), "", nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return strings.NewReader(fmt.Sprint(b)), "", nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "", nil
}
