// Package downloader implements the download adapter (C4): invoking an
// external yt-dlp-compatible binary, sampling its progress, and reporting
// the produced media file (or a typed failure).
package downloader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// Sidecar is the `<basename>.info.json` metadata document the downloader
// tool writes alongside the media file.
type Sidecar struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Language    string `json:"language,omitempty"`
	Description string `json:"description,omitempty"`
	Title       string `json:"title"`
}

// Executor runs the external download binary. Production code uses
// execExecutor; tests supply a fake.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Downloader drives the external tool, grounded on the same
// Executor-plus-progress-callback shape used for other external-process
// adapters in the corpus.
type Downloader struct {
	binary   string
	executor Executor
	logger   *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithExecutor overrides the process executor, for tests.
func WithExecutor(e Executor) Option {
	return func(d *Downloader) { d.executor = e }
}

// New constructs a Downloader invoking the named binary (a yt-dlp-compatible
// tool) via os/exec by default.
func New(binary string, logger *slog.Logger, opts ...Option) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Downloader{binary: binary, executor: execExecutor{}, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result is the outcome of a successful download.
type Result struct {
	FilePath string
	Sidecar  Sidecar
}

// ErrDownloadFailed covers tool exit failure, a missing output file after a
// reported success, or a missing sidecar.
var ErrDownloadFailed = fmt.Errorf("download failed")

// Download invokes the external tool against url, writing into targetDir.
// Concurrency/rate flags mirror the original tool invocation: three
// concurrent fragment workers, a 5 MB/s rate cap.
func (d *Downloader) Download(ctx context.Context, url, targetDir string) (Result, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("%w: create target dir: %v", ErrDownloadFailed, err)
	}

	outTemplate := filepath.Join(targetDir, "%(title)s.%(ext)s")
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--write-info-json",
		"--concurrent-fragments", "3",
		"--limit-rate", "5M",
		"--print", "after_move:filepath",
		"-o", outTemplate,
		url,
	}

	sampler := newProgressSampler()
	var reportedPath string

	err := d.executor.Run(ctx, d.binary, args, func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		if filepath.IsAbs(line) || strings.Contains(line, string(os.PathSeparator)) {
			reportedPath = line
			return
		}
		sampler.logLine(d.logger, line)
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	if reportedPath == "" {
		return Result{}, fmt.Errorf("%w: tool reported no output path", ErrDownloadFailed)
	}
	if _, statErr := os.Stat(reportedPath); statErr != nil {
		return Result{}, fmt.Errorf("%w: output file not found: %v", ErrDownloadFailed, statErr)
	}

	sidecarPath := sidecarPathFor(reportedPath)
	sidecar, err := readSidecar(sidecarPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: sidecar missing or malformed: %v", ErrDownloadFailed, err)
	}

	return Result{FilePath: reportedPath, Sidecar: sidecar}, nil
}

func sidecarPathFor(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	return strings.TrimSuffix(mediaPath, ext) + ".info.json"
}

func readSidecar(path string) (Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sidecar{}, err
	}
	var sidecar Sidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		return Sidecar{}, err
	}
	return sidecar, nil
}

// execExecutor runs the binary via os/exec, streaming combined stdout/
// stderr line by line to onLine.
type execExecutor struct{}

func (execExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}

	return cmd.Wait()
}

// FormatBytes renders a byte count using humanize, matching the original
// tool's progress log formatting (e.g. "12 MB").
func FormatBytes(n int64) string {
	return humanize.Bytes(uint64(n))
}
