// Package baseline persists reference pixel matrices, one per screen
// identifier, in a flat storage directory. It also writes the diff artifacts
// produced by failed comparisons. Layout:
//
//	<dir>/<screen_id>_baseline.txt
//	<dir>/<screen_id>_diff_<uuid>.txt
package baseline

import (
	"fmt"
	"os"
	"path/filepath"

	"pixelproof/internal/pixel"
)

// StorageError reports a baseline or diff artifact read/write failure,
// including corrupt stored data.
type StorageError struct {
	Op       string // "load", "save", or "write-diff"
	ScreenID string
	Path     string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("baseline storage: %s %q (%s): %v", e.Op, e.ScreenID, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is a flat-file baseline store. One baseline per screen identifier;
// Save has last-write-wins semantics and is only called for the initial
// baseline or an explicit operator update, never as a side effect of a
// comparison.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily by
// the first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the deterministic baseline path for a screen identifier.
func (s *Store) Path(screenID string) string {
	return filepath.Join(s.dir, screenID+"_baseline.txt")
}

// Exists reports whether a baseline is stored for the screen identifier.
func (s *Store) Exists(screenID string) bool {
	info, err := os.Stat(s.Path(screenID))
	return err == nil && !info.IsDir()
}

// Load reads the stored baseline for the screen identifier.
func (s *Store) Load(screenID string) (*pixel.Matrix, error) {
	path := s.Path(screenID)
	f, err := os.Open(path)
	if err != nil {
		return nil, &StorageError{Op: "load", ScreenID: screenID, Path: path, Err: err}
	}
	defer f.Close()

	m, err := pixel.DecodeMatrix(f)
	if err != nil {
		return nil, &StorageError{Op: "load", ScreenID: screenID, Path: path, Err: fmt.Errorf("corrupt baseline: %w", err)}
	}
	return m, nil
}

// Save writes (or overwrites) the baseline for the screen identifier and
// returns the storage path. The containing directory is created if absent.
func (s *Store) Save(screenID string, m *pixel.Matrix) (string, error) {
	path := s.Path(screenID)
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", &StorageError{Op: "save", ScreenID: screenID, Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", &StorageError{Op: "save", ScreenID: screenID, Path: path, Err: err}
	}
	if err := pixel.EncodeMatrix(f, m); err != nil {
		f.Close()
		return "", &StorageError{Op: "save", ScreenID: screenID, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &StorageError{Op: "save", ScreenID: screenID, Path: path, Err: err}
	}
	return path, nil
}
