package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vidproof/vidproof/internal/errors"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindVideoFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_teaser.mov")
	touch(t, dir, "A_final.mp4")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".hidden.mp4")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := FindVideoFiles(dir)
	if err != nil {
		t.Fatalf("FindVideoFiles() error = %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "A_final.mp4" || filepath.Base(files[1]) != "b_teaser.mov" {
		t.Errorf("files not sorted case-insensitively: %v", files)
	}
}

func TestFindVideoFilesEmptyDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md")

	_, err := FindVideoFiles(dir)
	if err == nil {
		t.Fatal("FindVideoFiles() did not fail for a dir with no videos")
	}
	if !errors.IsKind(err, errors.KindNoFilesFound) {
		t.Errorf("error kind = %v, want KindNoFilesFound", err)
	}
}

func TestFindVideoFilesMissingDir(t *testing.T) {
	_, err := FindVideoFiles(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("FindVideoFiles() did not fail for a missing dir")
	}
	if !errors.IsKind(err, errors.KindAssetNotFound) {
		t.Errorf("error kind = %v, want KindAssetNotFound", err)
	}
}
