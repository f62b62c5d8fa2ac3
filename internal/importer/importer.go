// Package importer watches a drafts directory and imports dropped text files
// as draft essays.
package importer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/redpen-dev/redpen/internal/store"
)

// watchedExtensions are the file types imported as essays.
var watchedExtensions = []string{".txt", ".md"}

// Importer watches a directory with fsnotify and creates a draft essay for
// each new text file. A file written again after import updates the same
// essay instead of creating a duplicate.
type Importer struct {
	dir     string
	essays  store.EssayStore
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	imported map[string]string // file path -> essay ID
}

// New creates an Importer for dir. The directory must exist.
func New(dir string, essays store.EssayStore) (*Importer, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("drafts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("drafts path %s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Importer{
		dir:      dir,
		essays:   essays,
		watcher:  watcher,
		imported: make(map[string]string),
	}, nil
}

// Run imports any files already present, then watches for new ones until ctx
// is cancelled.
func (im *Importer) Run(ctx context.Context) error {
	if err := im.scan(ctx); err != nil {
		return err
	}

	if err := im.watcher.Add(im.dir); err != nil {
		return fmt.Errorf("watching %s: %w", im.dir, err)
	}
	defer im.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-im.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isWatchedExtension(event.Name) {
				continue
			}
			if err := im.importFile(ctx, event.Name); err != nil {
				log.Printf("[ERROR] importing %s: %v", event.Name, err)
			}
		case err, ok := <-im.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[ERROR] drafts watcher: %v", err)
		}
	}
}

// scan imports files already in the directory at startup.
func (im *Importer) scan(ctx context.Context) error {
	entries, err := os.ReadDir(im.dir)
	if err != nil {
		return fmt.Errorf("reading drafts directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isWatchedExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(im.dir, entry.Name())
		if err := im.importFile(ctx, path); err != nil {
			log.Printf("[ERROR] importing %s: %v", path, err)
		}
	}
	return nil
}

// importFile creates or updates the draft essay for path.
func (im *Importer) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil
	}

	im.mu.Lock()
	id, seen := im.imported[path]
	im.mu.Unlock()

	if seen {
		_, err := im.essays.UpdateEssay(ctx, id, store.EssayUpdate{Content: &content})
		if err != nil {
			return fmt.Errorf("updating imported essay: %w", err)
		}
		return nil
	}

	essay, err := im.essays.CreateEssay(ctx, titleFromPath(path), content)
	if err != nil {
		return fmt.Errorf("creating essay: %w", err)
	}

	im.mu.Lock()
	im.imported[path] = essay.ID
	im.mu.Unlock()

	log.Printf("[INFO] imported draft %q from %s", essay.Title, path)
	return nil
}

// titleFromPath derives an essay title from the file name, e.g.
// "urban-planning_essay.md" becomes "urban planning essay".
func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}

func isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range watchedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
