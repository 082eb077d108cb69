// Package downloader invokes an external yt-dlp-compatible binary to fetch
// a video and its sidecar metadata document, throttling progress logs and
// classifying every way the external tool can fail.
package downloader
