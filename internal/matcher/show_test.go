package matcher

import "testing"

func TestMatchShowVerbatimWins(t *testing.T) {
	input := "Jet Lag Productions :: Jet Lag: The Game — We Played Hide And Seek"
	candidates := []ShowCandidate{
		{Title: "Jet Lag: The Game", ID: "1"},
		{Title: "Some Other Show", ID: "2"},
	}
	got := MatchShow(input, candidates)
	if got.MatchedID != "1" {
		t.Fatalf("expected show 1 to win, got %q (score %d)", got.MatchedID, got.Score)
	}
	if got.Score < 80 {
		t.Fatalf("expected score >= 80 for a verbatim match, got %d", got.Score)
	}
}

func TestMatchShowEmptyPool(t *testing.T) {
	got := MatchShow("anything", nil)
	if got.Score != -1 || got.Reason != "no candidates" {
		t.Fatalf("expected empty-pool sentinel, got %+v", got)
	}
}

func TestMatchShowNoOverlapScoresLow(t *testing.T) {
	candidates := []ShowCandidate{{Title: "Completely Unrelated Program", ID: "9"}}
	got := MatchShow("zzz qqq xxx", candidates)
	if got.Score >= 80 {
		t.Fatalf("expected a low score for unrelated titles, got %d", got.Score)
	}
}
