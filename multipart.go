package reqforge

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

const defaultFileMimeType = "application/octet-stream"

// MultipartForm is a multipart/form-data payload made of text fields and
// file parts, kept in insertion order. The form owns the content of its
// files until it is encoded.
type MultipartForm struct {
	fields *Params
	files  []FilePart
}

// FilePart is a file attached to a MultipartForm under a field name.
type FilePart struct {
	Field string
	File  *FileUpload
}

// NewMultipartForm returns an empty form.
func NewMultipartForm() *MultipartForm {
	return &MultipartForm{fields: NewParams()}
}

// Text adds a text field.
func (f *MultipartForm) Text(name, value string) *MultipartForm {
	f.fields.Set(name, value)
	return f
}

// File adds a file part.
func (f *MultipartForm) File(field string, file *FileUpload) *MultipartForm {
	f.files = append(f.files, FilePart{Field: field, File: file})
	return f
}

// Fields returns the text fields.
func (f *MultipartForm) Fields() *Params {
	return f.fields
}

// Files returns the file parts.
func (f *MultipartForm) Files() []FilePart {
	return f.files
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode renders the form and returns the body together with its
// Content-Type, which carries the boundary.
func (f *MultipartForm) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary("reqforge-" + uuid.NewString()); err != nil {
		return nil, "", Errorf(CodeInvalidRequest, "multipart boundary: %w", err)
	}

	for pair := f.fields.Oldest(); pair != nil; pair = pair.Next() {
		if err := w.WriteField(pair.Key, pair.Value); err != nil {
			return nil, "", Errorf(CodeSerialization, "multipart field %s: %w", pair.Key, err)
		}
	}

	for _, part := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(part.Field), quoteEscaper.Replace(part.File.Filename)))
		mimeType := part.File.MimeType
		if mimeType == "" {
			mimeType = defaultFileMimeType
		}
		h.Set("Content-Type", mimeType)

		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", Errorf(CodeSerialization, "multipart file %s: %w", part.Field, err)
		}
		if _, err := pw.Write(part.File.Content); err != nil {
			return nil, "", Errorf(CodeSerialization, "multipart file %s: %w", part.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", Errorf(CodeSerialization, "multipart close: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
