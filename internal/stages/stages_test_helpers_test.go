package stages

import (
	"context"
	"errors"

	"cfwai/internal/model"
)

// fakeLibrary is an in-memory LibraryAdapter for stage tests.
type fakeLibrary struct {
	series       []ShowCandidate
	episodes     map[string][]model.EpisodeRecord
	monitoredSer map[string]bool
	monitoredEp  map[string]bool
	tagged       map[string][]string
	refreshed    []string
	imports      []string
	failImport   bool
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		episodes:     map[string][]model.EpisodeRecord{},
		monitoredSer: map[string]bool{},
		monitoredEp:  map[string]bool{},
		tagged:       map[string][]string{},
	}
}

func (f *fakeLibrary) ListSeries(ctx context.Context) ([]ShowCandidate, error) {
	return f.series, nil
}

func (f *fakeLibrary) ListEpisodes(ctx context.Context, seriesID, seriesTitle string) ([]model.EpisodeRecord, error) {
	return f.episodes[seriesID], nil
}

func (f *fakeLibrary) IsMonitoredSeries(ctx context.Context, seriesID string) (bool, error) {
	v, ok := f.monitoredSer[seriesID]
	if !ok {
		return true, nil
	}
	return v, nil
}

func (f *fakeLibrary) IsMonitoredEpisode(ctx context.Context, seriesID string, season, episode int) (bool, error) {
	key := epKey(seriesID, season, episode)
	v, ok := f.monitoredEp[key]
	if !ok {
		return true, nil
	}
	return v, nil
}

func (f *fakeLibrary) IsEpisodeFile(ctx context.Context, seriesID string, season, episode int) (bool, error) {
	for _, ep := range f.episodes[seriesID] {
		if ep.Season == season && ep.Episode == episode {
			return ep.HasFile, nil
		}
	}
	return false, nil
}

func (f *fakeLibrary) TaggedSeriesIDs(ctx context.Context, label string) ([]string, error) {
	return f.tagged[label], nil
}

func (f *fakeLibrary) RefreshSeries(ctx context.Context, seriesID string) error {
	f.refreshed = append(f.refreshed, seriesID)
	return nil
}

func (f *fakeLibrary) ManualImport(ctx context.Context, seriesID string, season, episode int, filename, folder string) (model.ImportResult, error) {
	f.imports = append(f.imports, filename)
	if f.failImport {
		return model.ImportResult{}, errors.New("import failed")
	}
	return model.ImportResult{Status: "queued"}, nil
}

func epKey(seriesID string, season, episode int) string {
	return seriesID + ":" + itoa(season) + ":" + itoa(episode)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// fakeDownloader always succeeds, reporting a fixed file path.
type fakeDownloader struct {
	path   string
	failAt bool
}

func (f *fakeDownloader) Download(ctx context.Context, url, targetDir string) (DownloadResult, error) {
	if f.failAt {
		return DownloadResult{}, errors.New("download failed")
	}
	return DownloadResult{FilePath: f.path}, nil
}

// fakeTagger renames by appending a fixed suffix.
type fakeTagger struct {
	suffix string
	failAt bool
}

func (f *fakeTagger) Tag(filePath string) (string, error) {
	if f.failAt {
		return filePath, errors.New("sidecar missing")
	}
	return filePath + f.suffix, nil
}

// fakeMover returns the input path joined under destDir.
type fakeMover struct {
	failAt bool
}

func (f *fakeMover) Move(filePath, destDir string) (string, error) {
	if f.failAt {
		return "", errors.New("move failed")
	}
	return destDir + "/" + filePath, nil
}
