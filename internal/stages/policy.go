package stages

import (
	"context"

	"cfwai/internal/config"
	"cfwai/internal/model"
)

// policyOutcome is what CHECK_POLICY decided to do with an episode-matched
// item, shared between the decision stage's first pass and the aging
// stage's re-dispatch so the two state machines never diverge (§4.6
// CHECK_POLICY, §4.7 step 3).
type policyOutcome struct {
	archive model.Outcome
	enqueue bool // true: hand to the download stage
}

// checkPolicy implements the CHECK_POLICY state spec.md §4.6 defines,
// reused verbatim by the aging stage's "re-dispatch via the same policy
// checks" step (§4.7 step 3).
func checkPolicy(ctx context.Context, library LibraryAdapter, policy config.Policy, item model.Item) policyOutcome {
	ep := item.EpisodeResult
	if ep == nil || ep.FullMatch == nil {
		return policyOutcome{archive: model.OutcomeEpisodeScore}
	}

	if policy.HonorUnmonitoredEps {
		monitored, err := library.IsMonitoredEpisode(ctx, ep.MatchedSeriesID, ep.Season, ep.Episode)
		if err == nil && !monitored {
			return policyOutcome{archive: model.OutcomeUnmonitoredEpisode}
		}
	}

	if !policy.OverwriteEpisodes && ep.FullMatch.HasFile {
		return policyOutcome{archive: model.OutcomeEpisodeHasFile}
	}

	return policyOutcome{archive: model.OutcomeDownloadEnqueue, enqueue: true}
}
