package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Course is the root of the curriculum hierarchy. GradeLabel is the
// human-readable grade (e.g. "Class 4") appended to topic search queries.
type Course struct {
	ID         uuid.UUID
	Name       string
	GradeLabel string
	CreatedAt  time.Time
}

// Syllabus groups subjects under a course (e.g. "CBSE 2025").
type Syllabus struct {
	ID        uuid.UUID
	CourseID  uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Subject belongs to a syllabus (e.g. "Mathematics").
type Subject struct {
	ID         uuid.UUID
	SyllabusID uuid.UUID
	Name       string
	CreatedAt  time.Time
}

// Chapter belongs to a subject.
type Chapter struct {
	ID        uuid.UUID
	SubjectID uuid.UUID
	Title     string
	Position  int
	CreatedAt time.Time
}

// Topic is a curriculum leaf node and the alternate unit of work for the
// batch video search. Unlike a KeywordTag its search query is derived from
// the hierarchy path rather than stored text.
type Topic struct {
	ID        uuid.UUID
	ChapterID uuid.UUID
	Title     string
	Position  int

	// IsActive gates whether the topic is eligible for batch processing.
	IsActive bool

	// Status is the batch search lifecycle state of this topic.
	Status SearchStatus

	// LastSearchedAt records when the topic was last searched, if ever.
	LastSearchedAt *time.Time

	// ClaimedAt records when a batch run claimed this topic.
	ClaimedAt *time.Time

	CreatedAt time.Time
}

// TopicSearchQuery is a Topic joined with its hierarchy path, as selected by
// the topic batch claim. The query text reads deepest-first then outward.
type TopicSearchQuery struct {
	TopicID      uuid.UUID
	TopicTitle   string
	ChapterTitle string
	SubjectName  string
	GradeLabel   string
}

// Query builds the search query string "{topic} {chapter} {subject} {grade}".
// Empty segments are dropped so a sparse hierarchy still yields a usable query.
func (q TopicSearchQuery) Query() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{q.TopicTitle, q.ChapterTitle, q.SubjectName, q.GradeLabel} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
