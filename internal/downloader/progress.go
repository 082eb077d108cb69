package downloader

import (
	"bytes"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressSampler throttles progress logging to at least every 60 seconds
// or every 25 percentage points, whichever comes first — the exact gate
// the original download tool invocation applies to its progress hook. The
// rendered rate/ETA text comes from github.com/schollz/progressbar/v3,
// driven at our own gate instead of the library's own render throttle.
type progressSampler struct {
	lastLogged  time.Time
	lastPercent float64
	started     bool

	bar *progressbar.ProgressBar
	buf *bytes.Buffer
}

func newProgressSampler() *progressSampler {
	buf := &bytes.Buffer{}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(buf),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowBytes(false),
		progressbar.OptionThrottle(0),
		progressbar.OptionClearOnFinish(),
	)
	return &progressSampler{lastPercent: -100, bar: bar, buf: buf}
}

var percentPattern = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)%`)

func (s *progressSampler) logLine(logger *slog.Logger, line string) {
	match := percentPattern.FindStringSubmatch(line)
	if match == nil {
		return
	}
	percent, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return
	}

	now := time.Now()
	elapsed := now.Sub(s.lastLogged)
	pctDiff := percent - s.lastPercent
	if s.started && elapsed < 60*time.Second && pctDiff < 25 {
		return
	}

	s.started = true
	s.lastLogged = now
	s.lastPercent = percent

	s.buf.Reset()
	_ = s.bar.Set(int(percent))
	rendered := strings.TrimRight(s.buf.String(), "\r\n")
	logger.Info("download progress", "percent", percent, "line", line, "bar", rendered)
}
