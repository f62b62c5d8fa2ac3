package align

import (
	"reflect"
	"strings"
	"testing"

	"github.com/redpen-dev/redpen/internal/models"
)

const sampleDoc = "There are more digital archives now. They provides free internet for people. Community librarians organise small events."

func sampleAnnotations() []models.Annotation {
	return []models.Annotation{
		{
			ID:           "ann-1",
			Type:         models.AnnotationLogic,
			OriginalText: "There are more digital archives now.",
			Suggestion:   "As digital archives proliferate, libraries can pivot to curation.",
		},
		{
			ID:           "ann-2",
			Type:         models.AnnotationGrammar,
			OriginalText: "They provides free internet for people.",
			Suggestion:   "They provide free internet access for residents.",
		},
		{
			ID:           "ann-3",
			Type:         models.AnnotationVocabulary,
			OriginalText: "organise small events",
			Suggestion:   "curate multilingual salons",
		},
	}
}

func TestBuildMatches_SortedAscending(t *testing.T) {
	// Annotations are given out of document order; matches come back sorted.
	anns := sampleAnnotations()
	anns[0], anns[2] = anns[2], anns[0]

	matches := BuildMatches(sampleDoc, anns, nil)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Start < matches[i-1].Start {
			t.Errorf("matches not sorted: match %d starts at %d after %d", i, matches[i].Start, matches[i-1].Start)
		}
	}
	if matches[0].AnnotationID != "ann-1" || matches[2].AnnotationID != "ann-3" {
		t.Errorf("unexpected order: %s, %s, %s", matches[0].AnnotationID, matches[1].AnnotationID, matches[2].AnnotationID)
	}
}

func TestBuildMatches_ResolvedNeverHighlight(t *testing.T) {
	resolved := map[string]bool{"ann-2": true}

	matches := BuildMatches(sampleDoc, sampleAnnotations(), resolved)
	for _, m := range matches {
		if m.AnnotationID == "ann-2" {
			t.Error("resolved annotation produced a match")
		}
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want 2", len(matches))
	}
}

func TestBuildMatches_MissesDropped(t *testing.T) {
	anns := sampleAnnotations()
	anns = append(anns, models.Annotation{
		ID:           "ann-4",
		Type:         models.AnnotationLogic,
		OriginalText: "this text was edited away entirely",
	})

	matches := BuildMatches(sampleDoc, anns, nil)
	for _, m := range matches {
		if m.AnnotationID == "ann-4" {
			t.Error("unmatchable annotation produced a match")
		}
	}
}

func TestBuildMatches_OverlapKeepsEarlier(t *testing.T) {
	doc := "the quick brown fox jumps over the lazy dog"
	anns := []models.Annotation{
		{ID: "a", Type: models.AnnotationGrammar, OriginalText: "quick brown fox"},
		{ID: "b", Type: models.AnnotationGrammar, OriginalText: "brown fox jumps"},
	}

	matches := BuildMatches(doc, anns, nil)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].AnnotationID != "a" {
		t.Errorf("kept %q, want the earlier-starting match \"a\"", matches[0].AnnotationID)
	}
}

func TestBuildMatches_TypeCopied(t *testing.T) {
	matches := BuildMatches(sampleDoc, sampleAnnotations(), nil)
	want := map[string]models.AnnotationType{
		"ann-1": models.AnnotationLogic,
		"ann-2": models.AnnotationGrammar,
		"ann-3": models.AnnotationVocabulary,
	}
	for _, m := range matches {
		if m.Type != want[m.AnnotationID] {
			t.Errorf("%s has type %q, want %q", m.AnnotationID, m.Type, want[m.AnnotationID])
		}
	}
}

func TestSegmentDocument_CoversDocument(t *testing.T) {
	matches := BuildMatches(sampleDoc, sampleAnnotations(), nil)
	segments := SegmentDocument(sampleDoc, matches)

	var rebuilt strings.Builder
	for _, seg := range segments {
		rebuilt.WriteString(seg.Text)
	}
	if rebuilt.String() != sampleDoc {
		t.Errorf("segments do not reassemble the document:\n%q", rebuilt.String())
	}
}

func TestSegmentDocument_AlternatesAndTags(t *testing.T) {
	matches := BuildMatches(sampleDoc, sampleAnnotations(), nil)
	segments := SegmentDocument(sampleDoc, matches)

	highlights := 0
	for _, seg := range segments {
		if seg.Highlight {
			highlights++
			if seg.AnnotationID == "" {
				t.Error("highlighted segment missing annotation ID")
			}
			if !seg.Type.Valid() {
				t.Errorf("highlighted segment has invalid type %q", seg.Type)
			}
		} else if seg.AnnotationID != "" {
			t.Error("plain segment carries an annotation ID")
		}
	}
	if highlights != len(matches) {
		t.Errorf("got %d highlighted segments, want %d", highlights, len(matches))
	}
}

func TestSegmentDocument_Idempotent(t *testing.T) {
	resolved := map[string]bool{"ann-1": true}

	first := SegmentDocument(sampleDoc, BuildMatches(sampleDoc, sampleAnnotations(), resolved))
	second := SegmentDocument(sampleDoc, BuildMatches(sampleDoc, sampleAnnotations(), resolved))

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different segment lists")
	}
}

func TestSegmentDocument_NoMatches(t *testing.T) {
	segments := SegmentDocument(sampleDoc, nil)
	if len(segments) != 1 || segments[0].Highlight || segments[0].Text != sampleDoc {
		t.Errorf("expected a single plain segment, got %+v", segments)
	}
}

func TestSegmentDocument_EmptyDocument(t *testing.T) {
	if segments := SegmentDocument("", nil); len(segments) != 0 {
		t.Errorf("expected no segments for empty document, got %d", len(segments))
	}
}
