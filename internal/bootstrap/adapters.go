package bootstrap

import (
	"context"

	"cfwai/internal/downloader"
	"cfwai/internal/model"
	"cfwai/internal/sonarr"
	"cfwai/internal/stages"
	"cfwai/internal/tagger"
)

// sonarrAdapter narrows *sonarr.Client to stages.LibraryAdapter, converting
// sonarr.SeriesSummary to the stage package's ShowCandidate so internal/stages
// never imports internal/sonarr directly (Design Notes: no cyclic imports
// between the adapters and the stage workers).
type sonarrAdapter struct {
	client *sonarr.Client
}

func (a *sonarrAdapter) ListSeries(ctx context.Context) ([]stages.ShowCandidate, error) {
	summaries, err := a.client.ListSeries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]stages.ShowCandidate, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, stages.ShowCandidate{ID: s.ID, Title: s.Title, Monitored: s.Monitored})
	}
	return out, nil
}

func (a *sonarrAdapter) ListEpisodes(ctx context.Context, seriesID, seriesTitle string) ([]model.EpisodeRecord, error) {
	return a.client.ListEpisodes(ctx, seriesID, seriesTitle)
}

func (a *sonarrAdapter) IsMonitoredSeries(ctx context.Context, seriesID string) (bool, error) {
	return a.client.IsMonitoredSeries(ctx, seriesID)
}

func (a *sonarrAdapter) IsMonitoredEpisode(ctx context.Context, seriesID string, season, episode int) (bool, error) {
	return a.client.IsMonitoredEpisode(ctx, seriesID, season, episode)
}

func (a *sonarrAdapter) IsEpisodeFile(ctx context.Context, seriesID string, season, episode int) (bool, error) {
	return a.client.IsEpisodeFile(ctx, seriesID, season, episode)
}

func (a *sonarrAdapter) TaggedSeriesIDs(ctx context.Context, label string) ([]string, error) {
	return a.client.TaggedSeriesIDs(ctx, label)
}

func (a *sonarrAdapter) RefreshSeries(ctx context.Context, seriesID string) error {
	return a.client.RefreshSeries(ctx, seriesID)
}

func (a *sonarrAdapter) ManualImport(ctx context.Context, seriesID string, season, episode int, filename, folder string) (model.ImportResult, error) {
	return a.client.ManualImport(ctx, seriesID, season, episode, filename, folder)
}

// downloaderAdapter narrows *downloader.Downloader to stages.Downloader.
type downloaderAdapter struct {
	downloader *downloader.Downloader
}

func (a *downloaderAdapter) Download(ctx context.Context, url, targetDir string) (stages.DownloadResult, error) {
	result, err := a.downloader.Download(ctx, url, targetDir)
	if err != nil {
		return stages.DownloadResult{}, err
	}
	return stages.DownloadResult{FilePath: result.FilePath}, nil
}

// taggerAdapter narrows *tagger.Tagger to stages.Tagger.
type taggerAdapter struct {
	tagger *tagger.Tagger
}

func (a *taggerAdapter) Tag(filePath string) (string, error) {
	return a.tagger.Tag(filePath)
}
