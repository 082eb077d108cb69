// Package langid provides a coarse placeholder for the external
// language-identification helper spec.md names as an out-of-scope
// collaborator. It exists so the tagger has something to call when a
// downloaded sidecar lacks a language tag; a real deployment would swap
// this for an actual classifier behind the same interface.
package langid

import "strings"

// commonEnglishWords is a short stopword list; its presence in a text
// sample is treated as weak evidence of English.
var commonEnglishWords = []string{"the", "and", "a", "to", "of", "in", "is", "we"}

// Heuristic is a stub Classifier: it checks for common English stopwords
// and otherwise reports "unknown".
type Heuristic struct{}

// Identify implements tagger.Classifier.
func (Heuristic) Identify(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, word := range commonEnglishWords {
		if containsWord(lower, word) {
			return "en", true
		}
	}
	return "", false
}

func containsWord(text, word string) bool {
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, ".,!?:;\"'") == word {
			return true
		}
	}
	return false
}
