package matcher

import (
	"regexp"
	"strconv"
)

// episodeHintPatterns is the ordered pattern cascade; the first pattern to
// match wins. Mirrors extract_episode_hint in the original matcher.
var episodeHintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)S(\d+)E(\d+)`),
	regexp.MustCompile(`(?i)Season\D*(\d+)\D+Episode\D*(\d+)`),
	regexp.MustCompile(`(?i)S(\d+)\D+Ep(?:isode)?\D*(\d+)`),
	regexp.MustCompile(`(?i)Episode\D*(\d+)`),
	regexp.MustCompile(`(?i)Ep\D*(\d+)`),
}

// extractEpisodeHint attempts to parse season and episode numbers out of a
// title. Returns (-1, -1) if nothing matches, (-1, n) if only an episode
// number was found.
func extractEpisodeHint(title string) (season, episode int) {
	for _, pattern := range episodeHintPatterns {
		groups := pattern.FindStringSubmatch(title)
		if groups == nil {
			continue
		}
		switch len(groups) - 1 {
		case 2:
			s, errS := strconv.Atoi(groups[1])
			e, errE := strconv.Atoi(groups[2])
			if errS == nil && errE == nil {
				return s, e
			}
		case 1:
			e, err := strconv.Atoi(groups[1])
			if err == nil {
				return -1, e
			}
		}
	}
	return -1, -1
}
