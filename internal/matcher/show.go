package matcher

import (
	"fmt"
	"strings"

	"cfwai/internal/model"
)

// ShowCandidate is one (title, id) pair from the library catalog.
type ShowCandidate struct {
	Title string
	ID    string
}

// MatchShow scores a composite "{creator} :: {title}" input against the
// show catalog and returns the best candidate. An empty pool returns
// score -1 with a "no candidates" rationale.
func MatchShow(input string, candidates []ShowCandidate) model.ShowMatch {
	if len(candidates) == 0 {
		return model.ShowMatch{Input: input, Score: -1, Reason: "no candidates"}
	}

	normalizedInput := normalize(input)
	inputTokens := tokenSet(input)

	best := model.ShowMatch{Input: input, Score: -1}
	bestScore := -1

	for _, candidate := range candidates {
		normalizedCandidate := normalize(candidate.Title)
		candidateTokens := tokenSet(candidate.Title)

		verbatim := normalizedCandidate != "" && strings.Contains(normalizedInput, normalizedCandidate)
		verbatimBonus := 0
		if verbatim {
			verbatimBonus = 35 + len(candidate.Title)
		}

		tokenScore := tokenSetSimilarity(input, candidate.Title)

		overlap := 0.0
		if len(candidateTokens) > 0 {
			overlap = float64(len(tokenIntersection(inputTokens, candidateTokens))) / float64(len(candidateTokens))
		}

		score := verbatimBonus + roundHalfUp(float64(tokenScore)*0.10) + roundHalfUp(overlap*50)

		reason := fmt.Sprintf("token set similarity: %d%%, keyword overlap: %d%%", tokenScore, int(overlap*100))
		if verbatim {
			reason = "verbatim match; " + reason
		}

		if score > bestScore {
			bestScore = score
			best = model.ShowMatch{
				Input:       input,
				MatchedShow: candidate.Title,
				MatchedID:   candidate.ID,
				Score:       score,
				Reason:      reason,
			}
		}
	}
	return best
}

func roundHalfUp(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
