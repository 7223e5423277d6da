package fetchx

import (
	"bytes"
	"io"
	"mime/multipart"
)

// FormData is a multipart form body. Fields and files are written in the order they
// were added. It is passed through the body serializer untouched and encoded with its
// own boundary.
type FormData struct {
	parts []formPart
}

type formPart struct {
	name     string
	value    string
	filename string
	content  io.Reader
}

// NewFormData returns an empty form.
func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a text field.
func (f *FormData) Append(name, value string) *FormData {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// AppendFile adds a file part read from content.
func (f *FormData) AppendFile(name, filename string, content io.Reader) *FormData {
	f.parts = append(f.parts, formPart{name: name, filename: filename, content: content})
	return f
}

// Len returns the number of parts.
func (f *FormData) Len() int {
	return len(f.parts)
}

// MergeOpaque marks FormData as an atomic value for configuration merging.
func (*FormData) MergeOpaque() {}

// Encode writes the multipart payload and returns it with its content type.
func (f *FormData) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if p.content == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}
		part, err := w.CreateFormFile(p.name, p.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, p.content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
