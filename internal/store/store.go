// Package store persists essays and vocabulary entries. The production
// implementation is a local sqlite database; interfaces keep the HTTP and MCP
// surfaces testable against in-memory fakes.
package store

import (
	"context"
	"errors"

	"github.com/redpen-dev/redpen/internal/models"
)

// ErrEssayNotFound is returned when an essay ID does not exist.
var ErrEssayNotFound = errors.New("essay not found")

// ErrWordNotFound is returned when a vocabulary ID does not exist.
var ErrWordNotFound = errors.New("vocabulary entry not found")

// ErrDuplicateWord is returned when a word is already in the vocabulary book.
var ErrDuplicateWord = errors.New("word already collected")

// EssayFilter narrows and pages essay listings.
type EssayFilter struct {
	// Status filters by lifecycle state when non-empty.
	Status models.EssayStatus

	Limit  int
	Offset int
}

// EssayUpdate carries a partial essay update; nil fields are left unchanged.
type EssayUpdate struct {
	Title    *string
	Content  *string
	AIScore  *float64
	Feedback *models.AIFeedback
	Status   *models.EssayStatus
}

// EssayStore persists essays.
type EssayStore interface {
	CreateEssay(ctx context.Context, title, content string) (*models.Essay, error)
	GetEssay(ctx context.Context, id string) (*models.Essay, error)
	UpdateEssay(ctx context.Context, id string, update EssayUpdate) (*models.Essay, error)
	DeleteEssay(ctx context.Context, id string) error

	// ListEssays returns a page of essays ordered by most recently updated,
	// plus the total count matching the filter.
	ListEssays(ctx context.Context, filter EssayFilter) ([]models.Essay, int, error)
}

// VocabFilter narrows and pages vocabulary listings.
type VocabFilter struct {
	// Search matches words by substring when non-empty.
	Search string

	Limit  int
	Offset int
}

// VocabStore persists the vocabulary book.
type VocabStore interface {
	AddWord(ctx context.Context, item models.VocabularyItem) (*models.VocabularyItem, error)
	GetWord(ctx context.Context, id string) (*models.VocabularyItem, error)
	DeleteWord(ctx context.Context, id string) error

	// ListWords returns a page of entries ordered by most recently added,
	// plus the total count matching the filter.
	ListWords(ctx context.Context, filter VocabFilter) ([]models.VocabularyItem, int, error)
}

// Store is the full persistence surface.
type Store interface {
	EssayStore
	VocabStore

	Close() error
}
