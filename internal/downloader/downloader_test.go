package downloader

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type fakeExecutor struct {
	lines      []string
	reportPath string
	err        error
}

func (f fakeExecutor) Run(_ context.Context, _ string, _ []string, onLine func(string)) error {
	for _, l := range f.lines {
		onLine(l)
	}
	if f.reportPath != "" {
		onLine(f.reportPath)
	}
	return f.err
}

func writeSidecar(t *testing.T, mediaPath string) {
	t.Helper()
	sidecar := Sidecar{Width: 1920, Height: 1080, Language: "en", Title: "Episode"}
	data, err := json.Marshal(sidecar)
	if err != nil {
		t.Fatalf("marshal sidecar: %v", err)
	}
	if err := os.WriteFile(sidecarPathFor(mediaPath), data, 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
}

func TestDownloadSuccess(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "episode.mp4")
	if err := os.WriteFile(mediaPath, []byte("data"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	writeSidecar(t, mediaPath)

	d := New("yt-dlp", nil, WithExecutor(fakeExecutor{
		lines:      []string{"[download]  42.0% of 10.00MiB"},
		reportPath: mediaPath,
	}))
	result, err := d.Download(context.Background(), "https://example/video", dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if result.FilePath != mediaPath {
		t.Fatalf("expected file path %q, got %q", mediaPath, result.FilePath)
	}
	if result.Sidecar.Width != 1920 {
		t.Fatalf("expected sidecar width 1920, got %d", result.Sidecar.Width)
	}
}

func TestDownloadMissingOutputFileFails(t *testing.T) {
	dir := t.TempDir()
	d := New("yt-dlp", nil, WithExecutor(fakeExecutor{
		reportPath: filepath.Join(dir, "missing.mp4"),
	}))
	if _, err := d.Download(context.Background(), "https://example/video", dir); err == nil {
		t.Fatal("expected an error when the reported output file does not exist")
	}
}

func TestDownloadMissingSidecarFails(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "episode.mp4")
	if err := os.WriteFile(mediaPath, []byte("data"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	d := New("yt-dlp", nil, WithExecutor(fakeExecutor{reportPath: mediaPath}))
	if _, err := d.Download(context.Background(), "https://example/video", dir); err == nil {
		t.Fatal("expected an error when the sidecar is missing")
	}
}
