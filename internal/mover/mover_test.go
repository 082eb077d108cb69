package mover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMove_RelocatesFile(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "nested", "dest")

	src := filepath.Join(srcDir, "video.mkv")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	m := New()
	got, err := m.Move(src, dstDir)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	want := filepath.Join(dstDir, "video.mkv")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file at destination: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, stat err=%v", err)
	}
}
