package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FilePersister stores the document as a single JSON file, fully rewritten on every commit.
// Writes go to a temporary file in the same directory which is synced and renamed over the
// target, so a crash leaves either the previous or the new document.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister for the given path
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path returns the document location
func (p *FilePersister) Path() string {
	return p.path
}

// Load reads the document. A missing file yields an empty document; an unparsable one
// yields a DecodeError.
func (p *FilePersister) Load(ctx context.Context) (*Document, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.path, err)
	}
	if len(data) == 0 {
		return NewDocument(), nil
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, &DecodeError{Source: p.path, Err: err}
	}
	doc.normalize()
	return doc, nil
}

// Commit rewrites the whole document
func (p *FilePersister) Commit(ctx context.Context, doc *Document, change Change) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", p.path, err)
	}
	return nil
}
