package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is an uploaded file that can be opened more than once
// (sniffed by validation, then streamed to storage).
type File struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// FromMultipart wraps a multipart form file.
func FromMultipart(fh *multipart.FileHeader) *File {
	return &File{
		Name: fh.Filename,
		Size: fh.Size,
		open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FromBytes wraps in-memory content.
func FromBytes(name string, data []byte) *File {
	return &File{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Open returns a fresh reader over the content.
func (f *File) Open() (io.ReadCloser, error) {
	return f.open()
}

// Ext is the lower-cased client extension including the dot.
func (f *File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// DetectMIME sniffs the content type from the file header bytes.
func (f *File) DetectMIME() (*mimetype.MIME, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return mimetype.DetectReader(r)
}
