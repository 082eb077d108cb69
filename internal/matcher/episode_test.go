package matcher

import (
	"testing"

	"cfwai/internal/model"
)

func TestMatchEpisodeTitleAndAirdateWin(t *testing.T) {
	candidates := []model.EpisodeRecord{
		{Series: "Jet Lag: The Game", SeriesID: "1", Season: 1, Episode: 2,
			Title: "We Played Hide And Seek Across NYC", AirDate: "20250426"},
		{Series: "Jet Lag: The Game", SeriesID: "1", Season: 1, Episode: 3,
			Title: "A Completely Different Episode", AirDate: "20250501"},
	}
	input := "Ep 2 — We Played Hide And Seek Across NYC"
	got := MatchEpisode(input, "20250427", candidates, nil)
	if got.Episode != 2 {
		t.Fatalf("expected episode 2 to win, got %d (score %d)", got.Episode, got.Score)
	}
	if got.Score < 70 {
		t.Fatalf("expected score >= 70, got %d", got.Score)
	}
}

func TestMatchEpisodeEmptyPool(t *testing.T) {
	got := MatchEpisode("anything", "20250101", nil, nil)
	if got.Score != -1 {
		t.Fatalf("expected empty-pool sentinel score -1, got %d", got.Score)
	}
}

func TestMatchEpisodeMonitoredBonus(t *testing.T) {
	candidates := []model.EpisodeRecord{
		{Series: "Show", SeriesID: "1", Season: 1, Episode: 1, Title: "Pilot Episode", AirDate: "20250101"},
	}
	input := "S1E1 Pilot Episode"
	withoutBonus := MatchEpisode(input, "20250101", candidates, func(string, int, int) bool { return false })
	withBonus := MatchEpisode(input, "20250101", candidates, func(string, int, int) bool { return true })
	if withBonus.Score != -1 && withoutBonus.Score != -1 && withBonus.Score < withoutBonus.Score {
		t.Fatalf("monitored bonus should not decrease score: %d vs %d", withBonus.Score, withoutBonus.Score)
	}
}

func TestExtractEpisodeHintCascade(t *testing.T) {
	cases := map[string][2]int{
		"S2E3 Title":              {2, 3},
		"Season 2 Episode 3":      {2, 3},
		"S2 Ep 3":                 {2, 3},
		"Episode 3":               {-1, 3},
		"Ep 3":                    {-1, 3},
		"no hints here":           {-1, -1},
	}
	for title, want := range cases {
		s, e := extractEpisodeHint(title)
		if s != want[0] || e != want[1] {
			t.Errorf("extractEpisodeHint(%q) = (%d,%d), want (%d,%d)", title, s, e, want[0], want[1])
		}
	}
}
