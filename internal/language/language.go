package language

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographicAliases maps ISO 639-2/B ("bibliographic") codes to their
// ISO 639-2/T ("terminology") equivalent. Both forms are valid registered
// IANA language subtags for the same language, but golang.org/x/text's
// tables are keyed off the terminology form, so these four need a nudge
// before being handed to language.Parse.
var bibliographicAliases = map[string]string{
	"fre": "fr",
	"ger": "de",
	"dut": "nl",
	"chi": "zh",
}

// wordAliases maps common full-word language names to their ISO 639-1
// code. golang.org/x/text/language only parses BCP 47 subtags, not
// natural-language names, so free-text input ("French", "chinese") needs
// this small lookup before it can be handed to the library.
var wordAliases = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
}

// englishNames is the Namer used to resolve human-readable language names.
var englishNames = display.English.Languages()

// titleCaser normalizes the casing of resolved display names.
var titleCaser = cases.Title(language.English)

// resolveAlias maps a bibliographic or word-form code to the code
// golang.org/x/text/language actually recognizes. The second return value
// reports whether an alias was found.
func resolveAlias(normalized string) (string, bool) {
	if mapped, ok := bibliographicAliases[normalized]; ok {
		return mapped, true
	}
	if mapped, ok := wordAliases[normalized]; ok {
		return mapped, true
	}
	return normalized, false
}

// ToISO2 converts any recognized language code or word to ISO 639-1
// (2-letter) via golang.org/x/text/language. Returns empty string for
// unrecognized input. If the input is already a 2-letter code (even if
// unrecognized by the library), it passes through.
func ToISO2(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return ""
	}
	lookup, _ := resolveAlias(normalized)

	if tag, err := language.Parse(lookup); err == nil {
		base, _ := tag.Base()
		if s := base.String(); len(s) == 2 {
			return s
		}
	}
	if len(normalized) == 2 {
		return normalized
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2 (3-letter) via
// golang.org/x/text/language. Returns "und" for unrecognized 2-letter
// codes, passes through unrecognized 3-letter codes.
func ToISO3(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return "und"
	}
	lookup, _ := resolveAlias(normalized)

	if tag, err := language.Parse(lookup); err == nil {
		base, _ := tag.Base()
		if s := base.ISO3(); len(s) == 3 && s != "und" {
			return s
		}
	}
	if len(normalized) == 3 {
		return normalized
	}
	return "und"
}

// DisplayName returns a human-readable English language name for any code
// golang.org/x/text/language recognizes. Returns "Unknown" for empty
// input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	normalized := strings.ToLower(trimmed)
	lookup, _ := resolveAlias(normalized)

	if tag, err := language.Parse(lookup); err == nil {
		if name := englishNames.Name(tag); name != "" && name != lookup {
			return titleCaser.String(name)
		}
	}
	return strings.ToUpper(trimmed)
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
// Checks common tag keys: language, LANGUAGE, Language, language_ietf, lang, LANG.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}

// NormalizeList deduplicates and normalizes a list of language codes to ISO 639-1.
func NormalizeList(languages []string) []string {
	if len(languages) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		trimmed := strings.ToLower(strings.TrimSpace(lang))
		if trimmed == "" {
			continue
		}
		if len(trimmed) > 2 {
			if mapped := ToISO2(trimmed); mapped != "" {
				trimmed = mapped
			}
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
