// Package jsonfile implements the default document store: every table is one
// indented JSON file that is read wholesale on load and replaced wholesale on
// save.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

// indent matches the layout of hand-maintained attendance files.
const indent = "  "

// Store reads and writes documents as files. A document name is a file path;
// relative names are resolved against Dir.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. An empty dir means the working
// directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file path used for the named document.
func (s *Store) Path(name string) string {
	if s.dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Load decodes the named file into dst. A missing file leaves dst untouched.
func (s *Store) Load(_ context.Context, name string, dst any) error {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return shared.WrapError("storage", "Load", shared.ErrStorage,
			fmt.Sprintf("cannot read %s", path), err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return shared.WrapError("storage", "Load", shared.ErrCorruptDocument,
			path, err)
	}
	return nil
}

// Save encodes src and replaces the named file. atomic.WriteFile writes a
// temporary file next to the target and renames it over the target, so a
// failed write never truncates the previous contents.
func (s *Store) Save(_ context.Context, name string, src any) error {
	path := s.Path(name)

	data, err := json.MarshalIndent(src, "", indent)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrWriteFailed,
			fmt.Sprintf("cannot encode %s", path), err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrWriteFailed, path, err)
	}
	return nil
}

// Ping checks that the data directory is reachable.
func (s *Store) Ping(_ context.Context) error {
	dir := s.dir
	if dir == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return shared.WrapError("storage", "Ping", shared.ErrStorage, dir, err)
	}
	if !info.IsDir() {
		return shared.WrapError("storage", "Ping", shared.ErrStorage,
			fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return nil
}
