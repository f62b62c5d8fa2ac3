package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redpen-dev/redpen/internal/store"
)

func newEssayStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "redpen.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func waitForEssays(t *testing.T, s *store.SQLiteStore, want int) []string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		essays, total, err := s.ListEssays(context.Background(), store.EssayFilter{})
		if err != nil {
			t.Fatalf("ListEssays() error = %v", err)
		}
		if total == want {
			titles := make([]string, 0, len(essays))
			for _, e := range essays {
				titles = append(titles, e.Title)
			}
			return titles
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("never reached %d essays", want)
	return nil
}

func TestImporter_ScansExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "urban-planning.md"), []byte("Cities need commons."), 0600); err != nil {
		t.Fatalf("writing draft: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0600); err != nil {
		t.Fatalf("writing non-draft: %v", err)
	}

	s := newEssayStore(t)
	im, err := New(dir, s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go im.Run(ctx)

	titles := waitForEssays(t, s, 1)
	if titles[0] != "urban planning" {
		t.Errorf("title = %q, want derived from filename", titles[0])
	}
}

func TestImporter_PicksUpNewFilesAndUpdates(t *testing.T) {
	dir := t.TempDir()
	s := newEssayStore(t)
	im, err := New(dir, s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go im.Run(ctx)

	path := filepath.Join(dir, "draft.txt")
	if err := os.WriteFile(path, []byte("first version"), 0600); err != nil {
		t.Fatalf("writing draft: %v", err)
	}
	waitForEssays(t, s, 1)

	if err := os.WriteFile(path, []byte("second version with more words"), 0600); err != nil {
		t.Fatalf("rewriting draft: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		essays, _, err := s.ListEssays(context.Background(), store.EssayFilter{})
		if err != nil {
			t.Fatalf("ListEssays() error = %v", err)
		}
		if len(essays) == 1 && essays[0].Content == "second version with more words" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("rewrite should update the imported essay in place")
}

func TestNew_RejectsMissingDirectory(t *testing.T) {
	s := newEssayStore(t)
	if _, err := New(filepath.Join(t.TempDir(), "nope"), s); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/drafts/urban-planning_essay.md", "urban planning essay"},
		{"simple.txt", "simple"},
		{"many___underscores.md", "many underscores"},
	}
	for _, tt := range tests {
		if got := titleFromPath(tt.path); got != tt.want {
			t.Errorf("titleFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
