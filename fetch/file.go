package fetch

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads one catalog JSON document from the local filesystem.
type FileSource struct {
	path string
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source backed by a local JSON file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name identifies the source by its file path.
func (s *FileSource) Name() string {
	return s.path
}

// Fetch reads and parses the file.
func (s *FileSource) Fetch(ctx context.Context) (*Batch, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parseBatch(s.path, data)
}
