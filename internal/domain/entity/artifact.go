package entity

import (
	"io"
	"strings"
)

const ArtifactMIMEType = "text/plain"

// ExportedFile is an in-memory artifact offered for download.
type ExportedFile struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	content  string
}

func NewExportedFile(filename, content string) *ExportedFile {
	return &ExportedFile{Filename: filename, MIMEType: ArtifactMIMEType, content: content}
}

func (f *ExportedFile) Content() string { return f.content }

func (f *ExportedFile) Size() int { return len(f.content) }

// Reader returns a fresh reader positioned at the start of the content.
func (f *ExportedFile) Reader() io.Reader { return strings.NewReader(f.content) }

func (f *ExportedFile) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.content)
	return int64(n), err
}
