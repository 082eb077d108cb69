package matcher

import (
	"fmt"
	"strings"

	"cfwai/internal/model"
)

// IsMonitoredFunc reports whether a candidate episode is monitored
// upstream; it is injected so the matcher stays a pure function of its
// inputs (the monitored bonus otherwise requires a live library lookup).
type IsMonitoredFunc func(seriesID string, season, episode int) bool

// MatchEpisode scores a composite input and airdate against a show's
// episode list. An empty pool returns score -1. The caller checks the
// score >= 70 threshold; MatchEpisode never filters candidates itself.
func MatchEpisode(input, airdate string, candidates []model.EpisodeRecord, isMonitored IsMonitoredFunc) model.EpisodeMatch {
	if len(candidates) == 0 {
		return model.EpisodeMatch{Input: input, Score: -1, Reason: "no candidates"}
	}

	season, episode := extractEpisodeHint(input)
	inputTokens := tokenSet(input)
	tokenFreq := buildTokenFrequencies(candidates)

	best := model.EpisodeMatch{Input: input, Score: -1}
	bestScore := -1000

	for i := range candidates {
		candidate := candidates[i]
		candidateTokens := tokenSet(candidate.Title)

		score := 0
		var reasons []string

		if season != -1 && episode != -1 {
			if candidate.Season == season && candidate.Episode == episode {
				score += 50
				reasons = append(reasons, "season/episode exact match")
			} else {
				reasons = append(reasons, "season/episode mismatch")
			}
		}

		tokenScore := tokenSetSimilarity(input, candidate.Title)
		score += roundHalfUp(float64(tokenScore) * 0.30)

		recall := weightedRecall(inputTokens, candidateTokens, tokenFreq)
		score += roundHalfUp(recall * 70)

		missed := tokenDifference(inputTokens, candidateTokens)
		missedPenalty := len(missed) * 5
		score -= missedPenalty

		extra := tokenDifference(candidateTokens, inputTokens)
		extraPenalty := roundHalfUp(2.5 * float64(len(extra)))
		score -= extraPenalty

		reasons = append(reasons,
			fmt.Sprintf("missed tokens: %d (-%d)", len(missed), missedPenalty),
			fmt.Sprintf("extra tokens: %d (-%d)", len(extra), extraPenalty),
			fmt.Sprintf("token set similarity: %d%%", tokenScore),
			fmt.Sprintf("weighted keyword recall: %d%%", int(recall*100)),
		)

		if days, ok := dateDistanceDays(airdate, candidate.AirDate); ok {
			bonus := 50.0 - 25.0*float64(days)
			if bonus < 0 {
				bonus = 0
			}
			score += roundHalfUp(bonus)
			reasons = append(reasons, fmt.Sprintf("date_gap=%dd (bonus=%.2f)", days, bonus))
		} else {
			reasons = append(reasons, "no airdate match")
		}

		if score > 70 && isMonitored != nil && isMonitored(candidate.SeriesID, candidate.Season, candidate.Episode) {
			score++
		}

		if score > bestScore {
			bestScore = score
			record := candidate
			best = model.EpisodeMatch{
				Input:            input,
				MatchedShow:      candidate.Series,
				MatchedSeriesID:  candidate.SeriesID,
				Season:           candidate.Season,
				Episode:          candidate.Episode,
				EpisodeTitle:     candidate.Title,
				EpisodeOrigTitle: candidate.Title,
				Score:            score,
				Reason:           strings.Join(reasons, "; "),
				FullMatch:        &record,
			}
		}
	}
	return best
}

func buildTokenFrequencies(candidates []model.EpisodeRecord) map[string]int {
	freq := make(map[string]int)
	for _, c := range candidates {
		for token := range tokenSet(c.Title) {
			freq[token]++
		}
	}
	return freq
}

// weightedRecall computes inverse-document-frequency weighted token
// recall: rare candidate tokens that also appear in the input count for
// more than common ones.
func weightedRecall(inputTokens, candidateTokens map[string]struct{}, freq map[string]int) float64 {
	if len(candidateTokens) == 0 {
		return 0
	}
	var totalWeight, overlapWeight float64
	for token := range candidateTokens {
		f := freq[token]
		if f < 1 {
			f = 1
		}
		weight := 1.0 / float64(f)
		totalWeight += weight
		if _, ok := inputTokens[token]; ok {
			overlapWeight += weight
		}
	}
	if totalWeight == 0 {
		return 0
	}
	return overlapWeight / totalWeight
}
