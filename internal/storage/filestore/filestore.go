package filestore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/op/go-logging"

	"treeDB/internal/storage"
)

var log = logging.MustGetLogger("filestore")

// FileStore saves and loads whole-database snapshots.
// Relative file names are resolved against dir.
//
// A snapshot file holds every table (schema, indexed flags and rows) in the
// format described in format.go. Indexes are not stored; the storage engine
// rebuilds them on Restore.
type FileStore struct {
	dir string
}

// New creates a FileStore rooted at dir, creating the directory if needed.
func New(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file path used for name.
func (s *FileStore) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Save writes tables to name. The snapshot is written to a temporary file
// first and renamed over the target, so a failed save keeps the old file.
func (s *FileStore) Save(name string, tables []storage.TableSnapshot) error {
	path := s.Path(name)

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmp := f.Name()
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}

	w := bufio.NewWriter(f)
	if err := writeSnapshot(w, tables); err != nil {
		cleanup()
		return fmt.Errorf("filestore: write snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("filestore: flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("filestore: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filestore: close: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filestore: rename: %w", err)
	}

	log.Infof("saved %d tables to %s", len(tables), path)
	return nil
}

// Load reads the snapshot stored in name. A missing file is reported with an
// error wrapping os.ErrNotExist.
func (s *FileStore) Load(name string) ([]storage.TableSnapshot, error) {
	path := s.Path(name)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filestore: open snapshot: %w", err)
	}
	defer f.Close()

	tables, err := readSnapshot(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", path, err)
	}

	log.Infof("loaded %d tables from %s", len(tables), path)
	return tables, nil
}
