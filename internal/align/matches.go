package align

import (
	"sort"

	"github.com/redpen-dev/redpen/internal/models"
)

// TextMatch is the located span of one annotation in the current document.
// Matches carry the annotation type so renderers need no join back to the
// annotation list.
type TextMatch struct {
	AnnotationID string                `json:"annotationId"`
	Start        int                   `json:"start"`
	End          int                   `json:"end"`
	Type         models.AnnotationType `json:"type"`
}

// Segment is one slice of the document for rendering: either plain text or a
// highlighted annotation span.
type Segment struct {
	Text string `json:"text"`

	// Highlight is true for annotation spans; AnnotationID and Type are only
	// set when it is.
	Highlight    bool                  `json:"highlight"`
	AnnotationID string                `json:"annotationId,omitempty"`
	Type         models.AnnotationType `json:"type,omitempty"`
}

// BuildMatches locates every unresolved annotation in the document and returns
// the matches sorted by ascending start offset. Annotations whose ID is in
// resolvedIDs never produce a match, even if their text still occurs.
// Annotations that cannot be located are silently dropped: they stay actionable
// in the UI, just without an inline highlight.
//
// When two located spans overlap, the later-starting one is discarded and the
// earlier kept, so the result is always a non-overlapping ascending sequence.
func BuildMatches(document string, annotations []models.Annotation, resolvedIDs map[string]bool) []TextMatch {
	matches := make([]TextMatch, 0, len(annotations))
	for _, ann := range annotations {
		if resolvedIDs[ann.ID] {
			continue
		}
		span, ok := Locate(document, ann.OriginalText)
		if !ok {
			continue
		}
		matches = append(matches, TextMatch{
			AnnotationID: ann.ID,
			Start:        span.Start,
			End:          span.End,
			Type:         ann.Type,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	// Drop later matches that overlap an earlier one.
	kept := matches[:0]
	prevEnd := 0
	for _, m := range matches {
		if len(kept) > 0 && m.Start < prevEnd {
			continue
		}
		kept = append(kept, m)
		prevEnd = m.End
	}
	return kept
}

// SegmentDocument partitions the document into alternating plain and highlighted
// segments covering it exactly. Matches must be sorted, non-overlapping spans
// as produced by BuildMatches. The output is deterministic: identical inputs
// yield identical segment lists.
func SegmentDocument(document string, matches []TextMatch) []Segment {
	segments := make([]Segment, 0, 2*len(matches)+1)
	pos := 0
	for _, m := range matches {
		if m.Start > pos {
			segments = append(segments, Segment{Text: document[pos:m.Start]})
		}
		segments = append(segments, Segment{
			Text:         document[m.Start:m.End],
			Highlight:    true,
			AnnotationID: m.AnnotationID,
			Type:         m.Type,
		})
		pos = m.End
	}
	if pos < len(document) {
		segments = append(segments, Segment{Text: document[pos:]})
	}
	return segments
}
