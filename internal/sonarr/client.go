// Package sonarr implements the library adapter (C3): a thin REST client
// against a Sonarr-v3-compatible catalog and import service.
package sonarr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cfwai/internal/model"
)

// Client is a Sonarr v3 REST client. Every call has a 10-second timeout and
// no in-process caching: callers invoke once per decision.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

const defaultTimeout = 10 * time.Second

// New constructs a Client bound to baseURL, authenticating with apiKey via
// the X-Api-Key header on every request.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// StatusError is returned when the library service responds outside the
// 2xx range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sonarr: unexpected status %d: %s", e.Code, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("sonarr: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sonarr: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(limitReader(resp.Body))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ValidateConfig performs a health check, used both at startup (with
// retries) and on demand.
func (c *Client) ValidateConfig(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/v3/health", nil)
}

type seriesEntry struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Monitored  bool   `json:"monitored"`
	Tags       []int  `json:"tags"`
}

// ListSeries returns the (title, id, monitored) tuples for every show in
// the library catalog.
func (c *Client) ListSeries(ctx context.Context) ([]SeriesSummary, error) {
	var entries []seriesEntry
	if err := c.do(ctx, http.MethodGet, "/api/v3/series", &entries); err != nil {
		return nil, err
	}
	summaries := make([]SeriesSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, SeriesSummary{
			ID:        strconv.Itoa(e.ID),
			Title:     e.Title,
			Monitored: e.Monitored,
		})
	}
	return summaries, nil
}

// SeriesSummary is the (title, id, monitored) tuple §4.3 names for
// list_series.
type SeriesSummary struct {
	ID        string
	Title     string
	Monitored bool
}

type episodeEntry struct {
	SeriesID  int    `json:"seriesId"`
	Title     string `json:"title"`
	SeasonNum int    `json:"seasonNumber"`
	EpisodeNo int    `json:"episodeNumber"`
	AirDate   string `json:"airDate"`
	Monitored bool   `json:"monitored"`
	HasFile   bool   `json:"hasFile"`
}

// ListEpisodes returns every known episode for the given series.
func (c *Client) ListEpisodes(ctx context.Context, seriesID, seriesTitle string) ([]model.EpisodeRecord, error) {
	var entries []episodeEntry
	if err := c.do(ctx, http.MethodGet, "/api/v3/episode?seriesId="+seriesID, &entries); err != nil {
		return nil, err
	}
	out := make([]model.EpisodeRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.EpisodeRecord{
			Series:    seriesTitle,
			SeriesID:  strconv.Itoa(e.SeriesID),
			Season:    e.SeasonNum,
			Episode:   e.EpisodeNo,
			Title:     e.Title,
			AirDate:   strings.ReplaceAll(e.AirDate, "-", ""),
			HasFile:   e.HasFile,
			Monitored: e.Monitored,
		})
	}
	return out, nil
}

// IsMonitoredSeries reports a series's monitored flag.
func (c *Client) IsMonitoredSeries(ctx context.Context, seriesID string) (bool, error) {
	var entry seriesEntry
	if err := c.do(ctx, http.MethodGet, "/api/v3/series/"+seriesID, &entry); err != nil {
		return false, err
	}
	return entry.Monitored, nil
}

// IsMonitoredEpisode reports whether the specific season/episode is
// monitored.
func (c *Client) IsMonitoredEpisode(ctx context.Context, seriesID string, season, episode int) (bool, error) {
	episodes, err := c.ListEpisodes(ctx, seriesID, "")
	if err != nil {
		return false, err
	}
	for _, e := range episodes {
		if e.Season == season && e.Episode == episode {
			return e.Monitored, nil
		}
	}
	return false, nil
}

// IsEpisodeFile reports whether the season/episode already has a file.
func (c *Client) IsEpisodeFile(ctx context.Context, seriesID string, season, episode int) (bool, error) {
	episodes, err := c.ListEpisodes(ctx, seriesID, "")
	if err != nil {
		return false, err
	}
	for _, e := range episodes {
		if e.Season == season && e.Episode == episode {
			return e.HasFile, nil
		}
	}
	return false, nil
}

type tagEntry struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type tagDetail struct {
	ID        int   `json:"id"`
	Label     string `json:"label"`
	SeriesIDs []int `json:"seriesIds"`
}

// TaggedSeriesIDs returns the series ids carrying the given tag label
// (case-insensitive), used by the decision stage's tagged-candidate
// shortcut (labels of the form "wai-<creator>").
func (c *Client) TaggedSeriesIDs(ctx context.Context, label string) ([]string, error) {
	var tags []tagEntry
	if err := c.do(ctx, http.MethodGet, "/api/v3/tag", &tags); err != nil {
		return nil, err
	}
	var tagID int
	found := false
	for _, t := range tags {
		if strings.EqualFold(t.Label, label) {
			tagID = t.ID
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}
	var detail tagDetail
	if err := c.do(ctx, http.MethodGet, "/api/v3/tag/detail/"+strconv.Itoa(tagID), &detail); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(detail.SeriesIDs))
	for _, id := range detail.SeriesIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	return ids, nil
}

// RefreshSeries requests an upstream metadata refresh for the given series.
func (c *Client) RefreshSeries(ctx context.Context, seriesID string) error {
	return c.postCommand(ctx, map[string]any{
		"name":     "RefreshSeries",
		"seriesId": seriesID,
	})
}

// ManualImport hands a downloaded, tagged file to the library service for
// final import.
func (c *Client) ManualImport(ctx context.Context, seriesID string, season, episode int, filename, folder string) (model.ImportResult, error) {
	seriesIDNum, _ := strconv.Atoi(seriesID)
	payload := map[string]any{
		"name": "manualImport",
		"files": []map[string]any{
			{
				"path":         folder + "/" + filename,
				"seriesId":     seriesIDNum,
				"episodeIds":   []int{episode},
				"releaseGroup": "cfwai",
				"releaseType":  "singleEpisode",
			},
		},
		"importMode": "Move",
	}
	if err := c.postCommand(ctx, payload); err != nil {
		return model.ImportResult{}, err
	}
	return model.ImportResult{Status: "queued"}, nil
}

func (c *Client) postCommand(ctx context.Context, payload map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sonarr: encode command: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v3/command", newBodyReader(body))
	if err != nil {
		return fmt.Errorf("sonarr: build command request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sonarr: command request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
