// Package mover implements the final filesystem hand-off of a tagged,
// downloaded file into the library's watch folder (SONARR_IN_PATH),
// grounded on the teacher's organizer.movePathToReview rename-with-EXDEV-
// fallback idiom.
package mover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Mover relocates a tagged file into its destination directory, falling
// back to copy-then-remove when rename crosses a filesystem boundary.
type Mover struct{}

// New constructs a Mover.
func New() *Mover {
	return &Mover{}
}

// Move relocates filePath into destDir, preserving its base name, and
// returns the final path.
func (m *Mover) Move(filePath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure destination dir %s: %w", destDir, err)
	}
	target := filepath.Join(destDir, filepath.Base(filePath))

	if err := os.Rename(filePath, target); err == nil {
		return target, nil
	} else if !isCrossDevice(err) {
		return "", fmt.Errorf("move %s to %s: %w", filePath, target, err)
	}

	if err := copyFile(filePath, target); err != nil {
		return "", fmt.Errorf("cross-device copy %s to %s: %w", filePath, target, err)
	}
	if err := os.Remove(filePath); err != nil {
		return "", fmt.Errorf("remove source %s after copy: %w", filePath, err)
	}
	return target, nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
