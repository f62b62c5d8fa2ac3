package workbench

import (
	"testing"

	"github.com/redpen-dev/redpen/internal/models"
)

const testDoc = "They provides free internet for people who cannot pay for 5G plans."

func testFeedback() *models.AIFeedback {
	return &models.AIFeedback{
		Score:   7.4,
		Summary: "词汇和论证结构表现稳健，主要扣分点在语法细节。",
		Breakdown: []models.BreakdownItem{
			{Label: "词汇", Value: 7.5},
			{Label: "语法", Value: 6.5},
		},
		Annotations: []models.Annotation{
			{
				ID:           "ann-2",
				Type:         models.AnnotationGrammar,
				OriginalText: "They provides free internet for people who cannot pay for 5G plans.",
				Suggestion:   "They provide free internet access for residents who cannot afford private 5G plans.",
				Reason:       "主谓一致错误。",
			},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("Public libraries", testDoc)
	gen := s.BeginCorrection()
	if !s.ApplyFeedback(gen, testFeedback()) {
		t.Fatal("ApplyFeedback rejected a fresh generation token")
	}
	return s
}

func TestAccept_MutatesExactlyOnce(t *testing.T) {
	s := newTestSession(t)

	s.Accept("ann-2")

	want := "They provide free internet access for residents who cannot afford private 5G plans."
	if got := s.Document(); got != want {
		t.Errorf("document = %q, want %q", got, want)
	}
	if !s.IsResolved("ann-2") {
		t.Error("annotation not marked resolved after accept")
	}
	if matches := s.Matches(); len(matches) != 0 {
		t.Errorf("resolved annotation still produced %d matches", len(matches))
	}
}

func TestAccept_TextAlreadyEdited(t *testing.T) {
	s := newTestSession(t)
	edited := "Completely rewritten by hand."
	s.SetDocument(edited)

	s.Accept("ann-2")

	if got := s.Document(); got != edited {
		t.Errorf("accept mutated an edited document: %q", got)
	}
	if !s.IsResolved("ann-2") {
		t.Error("annotation should resolve even when its text is gone")
	}
}

func TestResolutionIsAbsorbing(t *testing.T) {
	t.Run("accept then reject", func(t *testing.T) {
		s := newTestSession(t)
		s.Accept("ann-2")
		docAfterAccept := s.Document()

		s.Reject("ann-2")

		if got := s.Document(); got != docAfterAccept {
			t.Error("reject after accept changed the document")
		}
		if !s.IsResolved("ann-2") {
			t.Error("annotation no longer resolved")
		}
	})

	t.Run("reject then accept", func(t *testing.T) {
		s := newTestSession(t)
		s.Reject("ann-2")

		s.Accept("ann-2")

		if got := s.Document(); got != testDoc {
			t.Errorf("accept after reject mutated the document: %q", got)
		}
	})

	t.Run("double accept", func(t *testing.T) {
		s := newTestSession(t)
		s.Accept("ann-2")
		docAfterFirst := s.Document()

		s.Accept("ann-2")

		if got := s.Document(); got != docAfterFirst {
			t.Error("second accept mutated the document again")
		}
	})
}

func TestReject_LeavesDocumentUntouched(t *testing.T) {
	s := newTestSession(t)

	s.Reject("ann-2")

	if got := s.Document(); got != testDoc {
		t.Errorf("reject mutated the document: %q", got)
	}
	if !s.IsResolved("ann-2") {
		t.Error("annotation not resolved after reject")
	}
}

func TestNewPassClearsResolutions(t *testing.T) {
	s := newTestSession(t)
	s.Reject("ann-2")

	gen := s.BeginCorrection()
	if !s.ApplyFeedback(gen, testFeedback()) {
		t.Fatal("fresh feedback rejected")
	}

	if s.IsResolved("ann-2") {
		t.Error("resolution survived a new correction pass")
	}
	if sel := s.Selected(); sel == nil || sel.ID != "ann-2" {
		t.Error("selection not reset to the first annotation of the new pass")
	}
}

func TestApplyFeedback_DiscardsStaleResponse(t *testing.T) {
	s := NewSession("t", testDoc)

	stale := s.BeginCorrection()
	latest := s.BeginCorrection()

	if s.ApplyFeedback(stale, testFeedback()) {
		t.Error("stale generation token was accepted")
	}
	if s.Feedback() != nil {
		t.Error("stale feedback was installed")
	}

	if !s.ApplyFeedback(latest, testFeedback()) {
		t.Error("latest generation token was rejected")
	}
}

func TestSelect_DoesNotResolve(t *testing.T) {
	s := newTestSession(t)

	s.Select("ann-2")

	if s.IsResolved("ann-2") {
		t.Error("selecting an annotation changed its resolution state")
	}
	if sel := s.Selected(); sel == nil || sel.ID != "ann-2" {
		t.Error("selection not recorded")
	}

	s.Select("no-such-id")
	if s.Selected() != nil {
		t.Error("selecting an unknown ID should clear the selection")
	}
}

func TestEmptyAnnotations_AllNoOps(t *testing.T) {
	s := NewSession("t", testDoc)

	s.Accept("ann-1")
	s.Reject("ann-1")
	s.Select("ann-1")

	if s.Document() != testDoc {
		t.Error("operations on an empty annotation set mutated the document")
	}
	if s.Selected() != nil {
		t.Error("selection should be nil with no annotations")
	}
	if len(s.Matches()) != 0 {
		t.Error("matches should be empty with no annotations")
	}
}

func TestSegments_ReassembleDocument(t *testing.T) {
	s := newTestSession(t)

	var rebuilt string
	for _, seg := range s.Segments() {
		rebuilt += seg.Text
	}
	if rebuilt != s.Document() {
		t.Errorf("segments do not reassemble the document: %q", rebuilt)
	}
}
