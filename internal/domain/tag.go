package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// KeywordTag is the unit of work for the batch video search. Tags are
// deduplicated globally by their exact text after suffix composition: the
// same keyword with a different class-level suffix is a different tag.
type KeywordTag struct {
	// ID is the primary key and the stable claim-ordering key for batches.
	ID int64

	// TagText is the globally unique search query text.
	TagText string

	// Status is the batch search lifecycle state of this tag.
	Status SearchStatus

	// LastSearchedAt records when the tag was last searched, if ever.
	LastSearchedAt *time.Time

	// ClaimedAt records when a batch run claimed this tag. Used to requeue
	// tags stranded in PROCESSING after a crashed run.
	ClaimedAt *time.Time

	// CreatedAt records when the tag was first created.
	CreatedAt time.Time
}

// ClassSuffix derives the suffix appended to every candidate keyword of a
// request. A purely numeric class level reads "class 5"; anything else
// ("LKG", "UKG") is used verbatim.
func ClassSuffix(classLevel string) string {
	if classLevel == "" {
		return ""
	}
	if isDigits(classLevel) {
		return fmt.Sprintf(" for class %s", classLevel)
	}
	return fmt.Sprintf(" for %s", classLevel)
}

// ComposeTagText builds the final tag text for a candidate keyword and a
// class-level suffix. The composed text is the global dedup key.
func ComposeTagText(candidate, suffix string) string {
	return strings.TrimSpace(candidate) + suffix
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
