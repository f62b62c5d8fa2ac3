// Package workbench owns the state of one editing session: the document text,
// the current correction pass, and the accept/reject resolution of each
// annotation. It is the explicit, single-owner replacement for the original
// app's shared client-side store.
package workbench

import (
	"strings"
	"sync"

	"github.com/redpen-dev/redpen/internal/align"
	"github.com/redpen-dev/redpen/internal/models"
)

// Session is the in-memory state of one essay being edited. All methods are
// safe for concurrent use, though the expected caller is a single UI event
// loop: the mutex exists so an HTTP handler and the MCP surface can share a
// session without races.
//
// Resolution is absorbing: once an annotation is accepted or rejected it stays
// resolved until a new correction pass replaces the whole annotation set.
type Session struct {
	mu sync.Mutex

	title    string
	document string

	feedback *models.AIFeedback
	resolved map[string]bool
	selected string

	// generation guards against stale in-flight correction responses. Each
	// BeginCorrection bumps it; ApplyFeedback only installs a response that
	// carries the latest token.
	generation uint64
}

// NewSession creates a session over the given title and document text.
func NewSession(title, document string) *Session {
	return &Session{
		title:    title,
		document: document,
		resolved: make(map[string]bool),
	}
}

// Title returns the essay title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle updates the essay title.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// Document returns the current document text.
func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// SetDocument replaces the document text, as the editor surface does on every
// keystroke. Annotations and resolutions are left alone; matches are simply
// recomputed against the new text on the next read.
func (s *Session) SetDocument(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = text
}

// Feedback returns the current correction pass, or nil before the first one.
func (s *Session) Feedback() *models.AIFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

// BeginCorrection marks the start of a correction request and returns the
// generation token the eventual response must present to ApplyFeedback.
func (s *Session) BeginCorrection() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// ApplyFeedback installs a completed correction pass: the annotation set is
// swapped wholesale, the resolution set cleared, and the selection reset to
// the first annotation. Returns false, leaving all state untouched, when gen
// is not the latest token (a newer request superseded this response).
func (s *Session) ApplyFeedback(gen uint64, feedback *models.AIFeedback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}

	s.feedback = feedback
	s.resolved = make(map[string]bool)
	s.selected = ""
	if feedback != nil && len(feedback.Annotations) > 0 {
		s.selected = feedback.Annotations[0].ID
	}
	return true
}

// Accept applies the annotation's suggestion and marks it resolved.
//
// The first literal occurrence of OriginalText is replaced with Suggestion; if
// the user already edited the text away, the document is untouched but the
// annotation still resolves. No-op if already resolved or unknown. The text
// mutation happens before the resolved mark so a re-render never observes
// "resolved" without the corresponding text change.
func (s *Session) Accept(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ann := s.findLocked(id)
	if ann == nil || s.resolved[id] {
		return
	}

	s.document = strings.Replace(s.document, ann.OriginalText, ann.Suggestion, 1)
	s.resolved[id] = true
}

// Reject marks the annotation resolved without touching the document.
// No-op if already resolved or unknown.
func (s *Session) Reject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil || s.resolved[id] {
		return
	}
	s.resolved[id] = true
}

// IsResolved reports whether the annotation has been accepted or rejected in
// the current correction pass.
func (s *Session) IsResolved(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved[id]
}

// Select focuses an annotation for detail display. Selection never changes
// resolution state. Selecting an unknown ID clears the selection.
func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		s.selected = ""
		return
	}
	s.selected = id
}

// Selected returns the currently focused annotation, or nil when nothing is
// selected or no correction pass exists.
func (s *Session) Selected() *models.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	ann := s.findLocked(s.selected)
	if ann == nil {
		return nil
	}
	out := *ann
	return &out
}

// Matches recomputes the located spans of all unresolved annotations against
// the current document text.
func (s *Session) Matches() []align.TextMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return align.BuildMatches(s.document, s.annotationsLocked(), s.resolved)
}

// Segments recomputes the renderable plain/highlight partition of the current
// document text.
func (s *Session) Segments() []align.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := align.BuildMatches(s.document, s.annotationsLocked(), s.resolved)
	return align.SegmentDocument(s.document, matches)
}

func (s *Session) annotationsLocked() []models.Annotation {
	if s.feedback == nil {
		return nil
	}
	return s.feedback.Annotations
}

func (s *Session) findLocked(id string) *models.Annotation {
	if id == "" || s.feedback == nil {
		return nil
	}
	for i := range s.feedback.Annotations {
		if s.feedback.Annotations[i].ID == id {
			return &s.feedback.Annotations[i]
		}
	}
	return nil
}
