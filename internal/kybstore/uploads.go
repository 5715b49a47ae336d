// internal/kybstore/uploads.go
//
// Disk storage for uploaded incorporation documents. Files get
// uuid-derived names so an upload can never clobber another user's file
// or traverse out of the upload directory.

package kybstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// FileStore writes uploads into one directory.
type FileStore struct {
	dir      string
	maxBytes int64
}

// NewFileStore prepares the upload directory.
func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kybstore: create upload dir: %w", err)
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

// AllowedExtension reports whether the original file name carries an
// accepted extension.
func AllowedExtension(fileName string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// Save streams one upload to disk and returns its path and stored name.
// The size limit is enforced while copying, not trusted from headers.
func (f *FileStore) Save(originalName string, content io.Reader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", "", fmt.Errorf("kybstore: file type %q not allowed", ext)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(f.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("kybstore: create upload file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(content, f.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("kybstore: write upload: %w", err)
	}
	if written > f.maxBytes {
		os.Remove(path)
		return "", "", fmt.Errorf("kybstore: upload exceeds %d bytes", f.maxBytes)
	}
	return path, name, nil
}
