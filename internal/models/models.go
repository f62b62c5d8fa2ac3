// Package models defines the core data types of the essay workbench:
// essays, AI feedback payloads, correction annotations, and vocabulary entries.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AnnotationType classifies a correction annotation. Closed enum; the
// provider boundary rejects any other value.
type AnnotationType string

const (
	AnnotationGrammar    AnnotationType = "grammar"
	AnnotationVocabulary AnnotationType = "vocabulary"
	AnnotationLogic      AnnotationType = "logic"
)

// Valid reports whether t is one of the permitted annotation types.
func (t AnnotationType) Valid() bool {
	switch t {
	case AnnotationGrammar, AnnotationVocabulary, AnnotationLogic:
		return true
	}
	return false
}

// Annotation is one AI-produced correction suggestion. Immutable once received
// from the provider; a new correction pass replaces the whole set.
type Annotation struct {
	// ID is an opaque unique string, stable within one correction pass.
	ID string `json:"id"`

	// Type is one of grammar, vocabulary, logic.
	Type AnnotationType `json:"type"`

	// OriginalText is the snippet the provider quoted from the essay.
	// Expected, but not guaranteed, to appear verbatim in the document.
	OriginalText string `json:"originalText"`

	// Suggestion is the replacement text. Empty means a pure deletion.
	Suggestion string `json:"suggestion"`

	// Reason is a human-readable explanation, opaque to the aligner.
	Reason string `json:"reason"`
}

// BreakdownItem is one scored dimension of the feedback (词汇/语法/逻辑/连贯性).
type BreakdownItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// AIFeedback is the full payload of one correction pass.
type AIFeedback struct {
	// Score is the overall band score, 0-9, decimals allowed.
	Score float64 `json:"score"`

	// Summary is a short provider-written assessment.
	Summary string `json:"summary"`

	Breakdown   []BreakdownItem `json:"breakdown"`
	Annotations []Annotation    `json:"annotations"`
}

// EssayStatus tracks an essay through its lifecycle.
type EssayStatus string

const (
	StatusDraft     EssayStatus = "draft"
	StatusCompleted EssayStatus = "completed"
	StatusArchived  EssayStatus = "archived"
)

// Valid reports whether s is a known essay status.
func (s EssayStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Essay is a stored writing document with its latest correction result.
type Essay struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	WordCount  int         `json:"word_count"`
	AIScore    *float64    `json:"ai_score"`
	AIFeedback *AIFeedback `json:"ai_feedback"`
	Status     EssayStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// VocabularyItem is one collected word in the vocabulary book.
type VocabularyItem struct {
	ID              string    `json:"id"`
	Word            string    `json:"word"`
	Phonetic        string    `json:"phonetic,omitempty"`
	Definition      string    `json:"definition,omitempty"`
	ContextSentence string    `json:"context_sentence,omitempty"`
	PartOfSpeech    []string  `json:"part_of_speech,omitempty"`
	Synonyms        []string  `json:"synonyms,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewID returns a fresh random identifier for stored records.
func NewID() string {
	return uuid.NewString()
}
