package reqforge

import (
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// FileUpload is the content of a file sent in a multipart form.
// Only the filename takes part in JSON serialization.
type FileUpload struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
	MimeType string `json:"-"`
}

// FileFromPath reads the file at path. The filename is the base name of
// path and the MIME type is guessed from its extension, falling back to
// sniffing the content. A file that cannot be read yields a CodeIO error
// and no FileUpload.
func FileFromPath(path string) (*FileUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, Errorf(CodeIO, "read %s: %w", path, err).WithDetail("path", path)
	}

	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		name = "file"
	}
	return &FileUpload{
		Filename: name,
		Content:  content,
		MimeType: guessMimeType(path, content),
	}, nil
}

// FileFromBytes wraps in-memory content. An empty mimeType is sent as
// application/octet-stream.
func FileFromBytes(filename string, content []byte, mimeType string) *FileUpload {
	return &FileUpload{
		Filename: filename,
		Content:  content,
		MimeType: mimeType,
	}
}

func guessMimeType(path string, content []byte) string {
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		t = mimetype.Detect(content).String()
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}
