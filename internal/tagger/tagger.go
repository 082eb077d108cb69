// Package tagger implements the tagging operation (C5): renaming a
// downloaded file to encode its resolution bucket and three-letter
// language code, moving its sidecar alongside it.
package tagger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cfwai/internal/downloader"
	"cfwai/internal/language"
)

// resolutionBuckets is the ascending table of standard video dimensions
// §4.5 names; a file's resolution is bucketed UP to the next entry.
var resolutionBuckets = []struct {
	width, height int
}{
	{426, 240}, {640, 360}, {854, 480}, {1280, 720},
	{1920, 1080}, {2560, 1440}, {3840, 2160}, {7680, 4320},
}

// Classifier is the language-identification collaborator spec.md names as
// out of scope; the tagger falls back to it only when the sidecar lacks a
// language tag. A coarse heuristic implementation lives in internal/langid.
type Classifier interface {
	Identify(text string) (alpha2 string, ok bool)
}

// Tagger renames downloaded files in place.
type Tagger struct {
	classifier Classifier
}

// New constructs a Tagger. classifier may be nil, in which case untagged
// sidecars fall back to "und" (undetermined).
func New(classifier Classifier) *Tagger {
	return &Tagger{classifier: classifier}
}

// Tag reads filePath's sidecar, computes the resolution bucket and
// three-letter language, and renames both the media file and its sidecar
// to `<stem>.WEB-DL.<W>x<H>.<lang3>-cfwai<ext>` (the sidecar becomes
// `<stem>.WEB-DL.<W>x<H>.<lang3>-cfwai.info.json`). Calling Tag twice on the
// same (already-tagged) path is a no-op: the path already carries the
// suffix, so the second call returns the input path unchanged.
func (t *Tagger) Tag(filePath string) (string, error) {
	sidecarPath := sidecarPathFor(filePath)
	sidecar, err := readSidecar(sidecarPath)
	if err != nil {
		// Missing sidecar: log upstream, keep original filename, continue —
		// this is a tagging failure per §7, not a download failure.
		return filePath, err
	}

	width, height := bucketResolution(sidecar.Width, sidecar.Height)
	lang3 := t.resolveLanguage(sidecar)

	suffix := ".WEB-DL." + strconv.Itoa(width) + "x" + strconv.Itoa(height) + "." + lang3 + "-cfwai"
	newPath := appendSuffix(filePath, suffix)
	newSidecarPath := sidecarPathFor(newPath)

	if newPath == filePath {
		return filePath, nil
	}

	if err := os.Rename(filePath, newPath); err != nil {
		return filePath, err
	}
	if err := os.Rename(sidecarPath, newSidecarPath); err != nil {
		return newPath, err
	}
	return newPath, nil
}

func (t *Tagger) resolveLanguage(sidecar downloader.Sidecar) string {
	if sidecar.Language != "" {
		return language.ToISO3(sidecar.Language)
	}
	if t.classifier == nil {
		return "und"
	}
	text := sidecar.Description
	if text == "" {
		text = sidecar.Title
	}
	if code, ok := t.classifier.Identify(text); ok {
		return language.ToISO3(code)
	}
	return "und"
}

func bucketResolution(width, height int) (int, int) {
	for _, bucket := range resolutionBuckets {
		if width <= bucket.width && height <= bucket.height {
			return bucket.width, bucket.height
		}
	}
	last := resolutionBuckets[len(resolutionBuckets)-1]
	return last.width, last.height
}

func sidecarPathFor(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	return strings.TrimSuffix(mediaPath, ext) + ".info.json"
}

func appendSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if strings.Contains(stem, suffix) {
		return path
	}
	return stem + suffix + ext
}

func readSidecar(path string) (downloader.Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return downloader.Sidecar{}, err
	}
	var sidecar downloader.Sidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		return downloader.Sidecar{}, err
	}
	return sidecar, nil
}
