// Package extract turns uploaded documents into candidate search keywords.
//
// The pipeline has two halves: FileText reads raw text out of a document
// (best-effort, format dispatched by extension) and ExtractKeywords distils
// that text into deduplicated candidate tags. ExtractKeywords is pure and
// deterministic; callers own suffixing and persistence.
package extract

import (
	"regexp"
	"strings"
)

// Keyword length bounds. A candidate survives only if its rune length is
// strictly between these values.
const (
	minKeywordLen = 4
	maxKeywordLen = 100
)

// sentinel separates candidate phrases after delimiter unification. It is
// substituted for commas and runs of whitespace, which cannot themselves
// contain it.
const sentinel = "|"

var (
	// multiSpaceRegex matches runs of two or more whitespace characters,
	// which syllabus documents use as column separators.
	multiSpaceRegex = regexp.MustCompile(`\s{2,}`)

	// listItemRegex matches leading list markers such as "a)", "1.", "ii)"
	// and serial-number headers like "Sl. No.".
	listItemRegex = regexp.MustCompile(`^\s*(\w[.)]|\d+[.)]|(?i:Sl\.?\s*No\.?))`)
)

// ExtractKeywords splits raw document text into deduplicated candidate tag
// phrases. Commas and multi-space runs act as delimiters; candidates that
// look like URLs, list markers, headers, or class-level fragments are
// dropped. Empty or whitespace-only input yields an empty slice. The result
// preserves first-seen order but callers must treat it as a set.
func ExtractKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	// Newlines are layout, not delimiters.
	text := strings.ReplaceAll(raw, "\n", " ")
	text = strings.ReplaceAll(text, ",", sentinel)
	text = multiSpaceRegex.ReplaceAllString(text, sentinel)

	seen := make(map[string]struct{})
	var keywords []string
	for _, phrase := range strings.Split(text, sentinel) {
		candidate := strings.TrimSpace(phrase)
		if !keepCandidate(candidate) {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		keywords = append(keywords, candidate)
	}
	return keywords
}

// keepCandidate applies the filter rules in order.
func keepCandidate(candidate string) bool {
	n := len([]rune(candidate))
	if n <= minKeywordLen || n >= maxKeywordLen {
		return false
	}
	if strings.Contains(candidate, "www.") || strings.Contains(candidate, "http") {
		return false
	}
	if strings.Contains(candidate, "Topics Covered") {
		return false
	}
	if listItemRegex.MatchString(candidate) {
		return false
	}
	// Class-level fragments ("for LKG", "for class 5") are composed back on
	// later; stray ones in the document are noise.
	if strings.HasPrefix(strings.ToLower(candidate), "for ") {
		return false
	}
	return true
}
