package classify

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/finchworks/ledgerline/internal/common"
	"github.com/finchworks/ledgerline/internal/model"
)

// Scores assigned by the individual admin-merchant scorers.
const (
	scoreExact        = 1.0
	scorePattern      = 0.9
	scoreAbbreviation = 0.8
	wordMatchWeight   = 0.9
	fuzzyWeight       = 0.8
)

// Thresholds are empirically chosen; they have no documented derivation and
// should be recalibrated against labeled data before tuning further.
const (
	minMerchantScore    = 0.3
	minWordFraction     = 0.3
	minFuzzySimilarity  = 0.6
	wordSimilarityFloor = 0.8
)

// abbreviationMaxLen is the longest merchant token treated as a potential
// abbreviation (e.g. "AMEX").
const abbreviationMaxLen = 4

// MatchScore scores an admin merchant record against transaction text.
// Each heuristic is an independent scorer; the result is the maximum.
// Callers apply the minMerchantScore threshold.
func MatchScore(merchant model.Merchant, text string) float64 {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0
	}

	names := merchantNames(merchant)
	if len(names) == 0 {
		return 0
	}

	best := exactScore(names, text)
	if s := patternScore(merchant, text); s > best {
		best = s
	}
	if s := abbreviationScore(names, text); s > best {
		best = s
	}
	if s := wordFractionScore(names, text); s > best {
		best = s
	}
	if s := fuzzyScore(names, text); s > best {
		best = s
	}
	return best
}

// merchantNames returns the lowercased name forms to score against.
func merchantNames(m model.Merchant) []string {
	var names []string
	if n := strings.ToLower(strings.TrimSpace(m.Name)); n != "" {
		names = append(names, n)
	}
	if n := strings.ToLower(strings.TrimSpace(m.NormalizedName)); n != "" && (len(names) == 0 || n != names[0]) {
		names = append(names, n)
	}
	return names
}

// exactScore: the merchant name (or its normalized form) appears verbatim
// in the transaction text.
func exactScore(names []string, text string) float64 {
	for _, name := range names {
		if strings.Contains(text, name) {
			return scoreExact
		}
	}
	return 0
}

// patternScore: a stored wildcard pattern matches the transaction text.
// Malformed patterns are skipped, never fatal.
func patternScore(m model.Merchant, text string) float64 {
	for _, pattern := range m.Patterns {
		if pattern == "" {
			continue
		}
		matched, err := common.MatchWildcard(pattern, text)
		if err != nil {
			slog.Debug("Skipping invalid merchant pattern",
				"merchant", m.Name, "pattern", pattern, "error", err)
			continue
		}
		if matched {
			return scorePattern
		}
	}
	return 0
}

// abbreviationScore: a short merchant token (e.g. "AMEX") appears inside one
// of the transaction's words.
func abbreviationScore(names []string, text string) float64 {
	textWords := strings.Fields(text)
	for _, name := range names {
		for _, token := range strings.Fields(name) {
			if utf8.RuneCountInString(token) > abbreviationMaxLen {
				continue
			}
			for _, word := range textWords {
				if strings.Contains(word, token) {
					return scoreAbbreviation
				}
			}
		}
	}
	return 0
}

// wordFractionScore: the fraction of the merchant's deduplicated words with
// a containment or fuzzy match against some transaction word, weighted and
// gated at minWordFraction.
func wordFractionScore(names []string, text string) float64 {
	textWords := strings.Fields(text)
	var best float64

	for _, name := range names {
		words := dedupWords(name)
		if len(words) == 0 {
			continue
		}

		matched := 0
		for _, word := range words {
			if wordMatches(word, textWords) {
				matched++
			}
		}

		fraction := float64(matched) / float64(len(words))
		if fraction >= minWordFraction {
			if s := fraction * wordMatchWeight; s > best {
				best = s
			}
		}
	}

	return best
}

func wordMatches(word string, textWords []string) bool {
	for _, tw := range textWords {
		if strings.Contains(tw, word) || strings.Contains(word, tw) {
			return true
		}
		if similarity(word, tw) > wordSimilarityFloor {
			return true
		}
	}
	return false
}

// fuzzyScore: edit-distance similarity of the full name against the text,
// gated at minFuzzySimilarity.
func fuzzyScore(names []string, text string) float64 {
	var best float64
	for _, name := range names {
		sim := similarity(name, text)
		if sim > minFuzzySimilarity {
			if s := sim * fuzzyWeight; s > best {
				best = s
			}
		}
	}
	return best
}

// similarity is 1 minus the Levenshtein distance normalized by the longer
// string.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	longer := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > longer {
		longer = l
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longer)
}

func dedupWords(s string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, word := range strings.Fields(s) {
		if !seen[word] {
			seen[word] = true
			words = append(words, word)
		}
	}
	return words
}
