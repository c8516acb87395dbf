package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrDocumentNotFound is returned by a Source that has no document with the requested name.
var ErrDocumentNotFound = errors.New("bootstrap: document not found")

// Source yields the raw bytes of a named bootstrap document.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FileSource reads documents from a directory of an afero filesystem.
type FileSource struct {
	fs  afero.Fs
	dir string
}

// NewFileSource creates a FileSource rooted at dir on fs.
func NewFileSource(fs afero.Fs, dir string) *FileSource {
	return &FileSource{fs: fs, dir: dir}
}

// NewOSFileSource creates a FileSource on the operating system filesystem.
func NewOSFileSource(dir string) *FileSource {
	return NewFileSource(afero.NewOsFs(), dir)
}

// Open implements Source.
func (s *FileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path := filepath.Join(s.dir, name)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", path, ErrDocumentNotFound)
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
