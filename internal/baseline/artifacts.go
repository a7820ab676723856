package baseline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"pixelproof/internal/pixel"
)

// DiffWriter serializes signed per-cell difference maps for human
// inspection. Callers only invoke it when a comparison fails; passing
// comparisons and fresh baselines produce no artifact.
type DiffWriter struct {
	dir string
}

// NewDiffWriter returns a writer rooted at dir, normally the same directory
// as the baseline store.
func NewDiffWriter(dir string) *DiffWriter {
	return &DiffWriter{dir: dir}
}

// Write persists the diff map and returns the artifact path. Each write gets
// a fresh uuid suffix so repeated failures never clobber earlier evidence.
func (w *DiffWriter) Write(screenID string, diff *pixel.DiffMap) (string, error) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	path := filepath.Join(w.dir, screenID+"_diff_"+suffix+".txt")
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", &StorageError{Op: "write-diff", ScreenID: screenID, Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", &StorageError{Op: "write-diff", ScreenID: screenID, Path: path, Err: err}
	}
	if err := pixel.EncodeDiffMap(f, diff); err != nil {
		f.Close()
		return "", &StorageError{Op: "write-diff", ScreenID: screenID, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &StorageError{Op: "write-diff", ScreenID: screenID, Path: path, Err: err}
	}
	return path, nil
}
