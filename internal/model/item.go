// Package model defines the Item product type and its stage-attached
// sub-records that flow through the decision, aging, and download queues.
package model

import "encoding/json"

// ShowMatch is the result of scoring a notification title against the
// library's show catalog.
type ShowMatch struct {
	Input       string `json:"input"`
	MatchedShow string `json:"matched_show,omitempty"`
	MatchedID   string `json:"matched_id,omitempty"`
	Score       int    `json:"score"`
	Reason      string `json:"reason"`
}

// EpisodeMatch is the result of scoring a notification title and airdate
// against a show's episode list.
type EpisodeMatch struct {
	Input             string         `json:"input"`
	MatchedShow       string         `json:"matched_show,omitempty"`
	MatchedSeriesID   string         `json:"matched_series_id,omitempty"`
	Season            int            `json:"season"`
	Episode           int            `json:"episode"`
	EpisodeTitle      string         `json:"episode_title,omitempty"`
	EpisodeOrigTitle  string         `json:"episode_orig_title,omitempty"`
	Score             int            `json:"score"`
	Reason            string         `json:"reason"`
	FullMatch         *EpisodeRecord `json:"full_match,omitempty"`
}

// EpisodeRecord is one candidate row of a show's episode list, as reported
// by the library adapter.
type EpisodeRecord struct {
	Series     string `json:"series"`
	SeriesID   string `json:"series_id"`
	Season     int    `json:"season"`
	Episode    int    `json:"episode"`
	Title      string `json:"title"`
	AirDate    string `json:"air_date"`
	HasFile    bool   `json:"has_file"`
	Monitored  bool   `json:"monitored"`
}

// ImportResult records the outcome reported by the library adapter's
// manual-import command.
type ImportResult struct {
	Status string `json:"status"`
}

// Item is the single unit of work that flows through the decision, aging,
// and download queues. Ingress fields never mutate after creation; later
// stages append their own derived fields. Extra preserves any JSON object
// keys this type does not name, so round-tripping an item produced by a
// newer or older schema never drops data.
type Item struct {
	// Ingress fields, fixed at creation.
	Creator  string `json:"creator"`
	Title    string `json:"title"`
	Datecode string `json:"datecode"`
	URL      string `json:"url"`

	// Decision-stage fields.
	TitleResult   *ShowMatch    `json:"title_result,omitempty"`
	EpisodeResult *EpisodeMatch `json:"episode_result,omitempty"`

	// Aging-stage fields.
	Ripeness  *int   `json:"ripeness,omitempty"`
	NextAging *int64 `json:"next_aging,omitempty"`
	LastScan  *int64 `json:"last_scan,omitempty"`

	// Download-stage fields.
	DownloadFilename string        `json:"download_filename,omitempty"`
	FileName         string        `json:"file_name,omitempty"`
	ImportResult     *ImportResult `json:"import_result,omitempty"`

	// Extra holds any JSON fields not named above. It is merged back in on
	// encode so forward- and backward-compatible fields survive archival.
	Extra map[string]any `json:"-"`
}

// itemAlias avoids infinite recursion in Item's custom MarshalJSON/UnmarshalJSON.
type itemAlias Item

// UnmarshalJSON decodes an Item, stashing any unrecognized object keys in Extra.
func (it *Item) UnmarshalJSON(data []byte) error {
	var alias itemAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*it = Item(alias)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range knownItemFields {
		delete(raw, key)
	}
	if len(raw) == 0 {
		it.Extra = nil
		return nil
	}
	extra := make(map[string]any, len(raw))
	for key, value := range raw {
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			continue
		}
		extra[key] = decoded
	}
	it.Extra = extra
	return nil
}

// MarshalJSON encodes an Item, merging Extra's keys alongside the named fields.
func (it Item) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(itemAlias(it))
	if err != nil {
		return nil, err
	}
	if len(it.Extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range it.Extra {
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		if _, known := merged[key]; known {
			continue
		}
		merged[key] = encoded
	}
	return json.Marshal(merged)
}

var knownItemFields = []string{
	"creator", "title", "datecode", "url",
	"title_result", "episode_result",
	"ripeness", "next_aging", "last_scan",
	"download_filename", "file_name", "import_result",
}

// CompositeTitle returns the "{creator} :: {title}" string the matcher
// operates on.
func (it Item) CompositeTitle() string {
	return it.Creator + " :: " + it.Title
}
