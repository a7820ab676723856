package baseline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pixelproof/internal/pixel"
)

func TestSaveCreatesDirectoryAndDeterministicPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	store := NewStore(dir)

	m := pixel.MustMatrix([][]int{{1, 2}, {3, 4}})
	path, err := store.Save("login", m)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(dir, "login_baseline.txt") {
		t.Fatalf("unexpected path: %s", path)
	}
	if !store.Exists("login") {
		t.Fatalf("Exists = false after Save")
	}
	if store.Exists("other") {
		t.Fatalf("Exists = true for unsaved screen")
	}
}

func TestLoadRoundTripBitIdentical(t *testing.T) {
	store := NewStore(t.TempDir())
	m := pixel.MustMatrix([][]int{{0, 255, 128}, {1, 2, 3}})

	if _, err := store.Save("dashboard", m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Load("dashboard")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(m.Cells(), loaded.Cells()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingBaseline(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load("absent")
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("error = %v, want StorageError", err)
	}
	if storageErr.ScreenID != "absent" || storageErr.Op != "load" {
		t.Fatalf("unexpected StorageError: %+v", storageErr)
	}
}

func TestLoadCorruptBaseline(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := os.WriteFile(store.Path("broken"), []byte("1 2\nnot numbers\n"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err := store.Load("broken")
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("error = %v, want StorageError", err)
	}
	if !strings.Contains(storageErr.Error(), "corrupt") {
		t.Fatalf("expected corrupt marker in error, got %v", storageErr)
	}
}

func TestSaveOverwriteLastWriteWins(t *testing.T) {
	store := NewStore(t.TempDir())

	first := pixel.MustMatrix([][]int{{1}})
	second := pixel.MustMatrix([][]int{{2}})
	if _, err := store.Save("home", first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if _, err := store.Save("home", second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load("home")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.At(0, 0) != 2 {
		t.Fatalf("overwrite not applied: got %d", loaded.At(0, 0))
	}
}

func TestDiffWriterNamesArtifactsUniquely(t *testing.T) {
	dir := t.TempDir()
	w := NewDiffWriter(dir)
	d := pixel.NewDiffMap([][]int{{-10, 30}})

	p1, err := w.Write("header", d)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	p2, err := w.Write("header", d)
	if err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("expected unique artifact paths, both %s", p1)
	}
	for _, p := range []string{p1, p2} {
		base := filepath.Base(p)
		if !strings.HasPrefix(base, "header_diff_") || !strings.HasSuffix(base, ".txt") {
			t.Fatalf("unexpected artifact name: %s", base)
		}
	}

	data, err := os.ReadFile(p1)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "-10 30\n" {
		t.Fatalf("artifact content = %q", string(data))
	}
}
