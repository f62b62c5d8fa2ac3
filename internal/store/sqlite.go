package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/redpen-dev/redpen/internal/models"
	"github.com/redpen-dev/redpen/internal/stats"
)

const schema = `
CREATE TABLE IF NOT EXISTS essays (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	content     TEXT NOT NULL DEFAULT '',
	word_count  INTEGER NOT NULL DEFAULT 0,
	ai_score    REAL,
	ai_feedback TEXT,
	status      TEXT NOT NULL DEFAULT 'draft',
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS vocabulary (
	id               TEXT PRIMARY KEY,
	word             TEXT NOT NULL UNIQUE,
	phonetic         TEXT,
	definition       TEXT,
	context_sentence TEXT,
	part_of_speech   TEXT,
	synonyms         TEXT,
	created_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_essays_status ON essays(status);
CREATE INDEX IF NOT EXISTS idx_essays_updated ON essays(updated_at);
`

// SQLiteStore implements Store on a local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at path and applies
// the schema. Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// sqlite handles one writer at a time; serialize access through a single
	// connection to avoid SQLITE_BUSY under the HTTP server.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateEssay inserts a new draft essay.
func (s *SQLiteStore) CreateEssay(ctx context.Context, title, content string) (*models.Essay, error) {
	now := time.Now().UTC()
	essay := models.Essay{
		ID:        models.NewID(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		WordCount: stats.WordCount(content),
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO essays (id, title, content, word_count, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		essay.ID, essay.Title, essay.Content, essay.WordCount, essay.Status, essay.CreatedAt, essay.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting essay: %w", err)
	}
	return &essay, nil
}

// GetEssay retrieves an essay by ID, or ErrEssayNotFound.
func (s *SQLiteStore) GetEssay(ctx context.Context, id string) (*models.Essay, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, word_count, ai_score, ai_feedback, status, created_at, updated_at
		FROM essays WHERE id = ?`, id)
	return scanEssay(row)
}

// UpdateEssay applies a partial update and returns the stored result.
func (s *SQLiteStore) UpdateEssay(ctx context.Context, id string, update EssayUpdate) (*models.Essay, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*update.Title))
	}
	if update.Content != nil {
		sets = append(sets, "content = ?", "word_count = ?")
		args = append(args, *update.Content, stats.WordCount(*update.Content))
	}
	if update.AIScore != nil {
		sets = append(sets, "ai_score = ?")
		args = append(args, *update.AIScore)
	}
	if update.Feedback != nil {
		data, err := json.Marshal(update.Feedback)
		if err != nil {
			return nil, fmt.Errorf("encoding feedback: %w", err)
		}
		sets = append(sets, "ai_feedback = ?")
		args = append(args, string(data))
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q", *update.Status)
		}
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE essays SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("updating essay: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrEssayNotFound
	}

	return s.GetEssay(ctx, id)
}

// DeleteEssay removes an essay, or returns ErrEssayNotFound.
func (s *SQLiteStore) DeleteEssay(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM essays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting essay: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEssayNotFound
	}
	return nil
}

// ListEssays returns a page of essays ordered by most recently updated.
func (s *SQLiteStore) ListEssays(ctx context.Context, filter EssayFilter) ([]models.Essay, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Status != "" {
		where = " WHERE status = ?"
		args = append(args, filter.Status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM essays"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting essays: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, word_count, ai_score, ai_feedback, status, created_at, updated_at
		FROM essays`+where+`
		ORDER BY updated_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing essays: %w", err)
	}
	defer rows.Close()

	essays := []models.Essay{}
	for rows.Next() {
		essay, err := scanEssay(rows)
		if err != nil {
			return nil, 0, err
		}
		essays = append(essays, *essay)
	}
	return essays, total, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEssay(row scanner) (*models.Essay, error) {
	var essay models.Essay
	var score sql.NullFloat64
	var feedback sql.NullString

	err := row.Scan(&essay.ID, &essay.Title, &essay.Content, &essay.WordCount,
		&score, &feedback, &essay.Status, &essay.CreatedAt, &essay.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEssayNotFound
	} else if err != nil {
		return nil, fmt.Errorf("scanning essay: %w", err)
	}

	if score.Valid {
		essay.AIScore = &score.Float64
	}
	if feedback.Valid && feedback.String != "" {
		var fb models.AIFeedback
		if err := json.Unmarshal([]byte(feedback.String), &fb); err != nil {
			return nil, fmt.Errorf("decoding stored feedback: %w", err)
		}
		essay.AIFeedback = &fb
	}
	return &essay, nil
}

// AddWord inserts a vocabulary entry. The word is stored lowercased; a
// duplicate returns ErrDuplicateWord.
func (s *SQLiteStore) AddWord(ctx context.Context, item models.VocabularyItem) (*models.VocabularyItem, error) {
	item.ID = models.NewID()
	item.Word = strings.ToLower(strings.TrimSpace(item.Word))
	item.CreatedAt = time.Now().UTC()

	pos, err := encodeList(item.PartOfSpeech)
	if err != nil {
		return nil, err
	}
	syns, err := encodeList(item.Synonyms)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vocabulary (id, word, phonetic, definition, context_sentence, part_of_speech, synonyms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Word, item.Phonetic, item.Definition, item.ContextSentence, pos, syns, item.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateWord
		}
		return nil, fmt.Errorf("inserting word: %w", err)
	}
	return &item, nil
}

// GetWord retrieves a vocabulary entry by ID, or ErrWordNotFound.
func (s *SQLiteStore) GetWord(ctx context.Context, id string) (*models.VocabularyItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, word, phonetic, definition, context_sentence, part_of_speech, synonyms, created_at
		FROM vocabulary WHERE id = ?`, id)
	return scanWord(row)
}

// DeleteWord removes a vocabulary entry, or returns ErrWordNotFound.
func (s *SQLiteStore) DeleteWord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vocabulary WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting word: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWordNotFound
	}
	return nil
}

// ListWords returns a page of vocabulary entries ordered by most recently
// added, optionally filtered by a word substring.
func (s *SQLiteStore) ListWords(ctx context.Context, filter VocabFilter) ([]models.VocabularyItem, int, error) {
	where := ""
	args := []interface{}{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = " WHERE word LIKE ?"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vocabulary"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting vocabulary: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, word, phonetic, definition, context_sentence, part_of_speech, synonyms, created_at
		FROM vocabulary`+where+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing vocabulary: %w", err)
	}
	defer rows.Close()

	items := []models.VocabularyItem{}
	for rows.Next() {
		item, err := scanWord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

func scanWord(row scanner) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	var phonetic, definition, contextSentence, pos, syns sql.NullString

	err := row.Scan(&item.ID, &item.Word, &phonetic, &definition, &contextSentence, &pos, &syns, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrWordNotFound
	} else if err != nil {
		return nil, fmt.Errorf("scanning word: %w", err)
	}

	item.Phonetic = phonetic.String
	item.Definition = definition.String
	item.ContextSentence = contextSentence.String

	if item.PartOfSpeech, err = decodeList(pos); err != nil {
		return nil, err
	}
	if item.Synonyms, err = decodeList(syns); err != nil {
		return nil, err
	}
	return &item, nil
}

// encodeList stores a string slice as JSON; nil and empty collapse to NULL.
func encodeList(values []string) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding list: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return values, nil
}
