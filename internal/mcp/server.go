// Package mcp exposes redpen over the Model Context Protocol so editor
// agents can grade essays, align annotations, and look up words.
package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redpen-dev/redpen/internal/align"
	"github.com/redpen-dev/redpen/internal/models"
	"github.com/redpen-dev/redpen/internal/provider"
	"github.com/redpen-dev/redpen/internal/store"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string

	// DBPath is the sqlite database location. Empty uses the default
	// ~/.redpen path.
	DBPath string

	// Provider configures the AI backend for correct and lookup tools.
	Provider provider.Config

	// Client overrides the provider client; used by tests.
	Client provider.Client
}

// Server wraps an MCP server with redpen tools registered.
type Server struct {
	server *mcp.Server
	store  *store.SQLiteStore
	ai     provider.Client

	closeOnce sync.Once
	closeErr  error
}

// NewServer creates an MCP server, opening the essay store at the configured
// path.
func NewServer(cfg *Config) (*Server, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		if _, err := store.EnsureDataDir(); err != nil {
			return nil, err
		}
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	ai := cfg.Client
	if ai == nil {
		ai = provider.NewHTTPClient(cfg.Provider)
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		store: st,
		ai:    ai,
	}
	s.registerTools()
	return s, nil
}

// Run serves MCP over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close releases the store. Safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.store.Close()
	})
	return s.closeErr
}

type correctArgs struct {
	Content string `json:"content" jsonschema:"the essay text to grade"`
}

type alignArgs struct {
	Document    string              `json:"document" jsonschema:"the current essay text"`
	Annotations []models.Annotation `json:"annotations" jsonschema:"annotations to locate in the document"`
	Resolved    []string            `json:"resolved,omitempty" jsonschema:"annotation IDs already accepted or rejected"`
}

type alignResult struct {
	Matches  []align.TextMatch `json:"matches"`
	Segments []align.Segment   `json:"segments"`
}

type lookupArgs struct {
	Word    string `json:"word" jsonschema:"the English word to look up"`
	Context string `json:"context,omitempty" jsonschema:"optional sentence the word appeared in"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redpen_correct",
		Description: "Grade an English essay: band score, per-dimension breakdown, and inline annotations.",
	}, s.handleCorrect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redpen_align",
		Description: "Locate annotation spans in an essay and segment it for highlighting. Resolved annotations are skipped.",
	}, s.handleAlign)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redpen_lookup",
		Description: "Look up an English word: phonetic, definitions, synonyms, antonyms.",
	}, s.handleLookup)
}

func (s *Server) handleCorrect(ctx context.Context, req *mcp.CallToolRequest, args correctArgs) (*mcp.CallToolResult, *models.AIFeedback, error) {
	if args.Content == "" {
		return nil, nil, fmt.Errorf("content is required")
	}
	feedback, err := s.ai.Correct(ctx, args.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("correcting essay: %w", err)
	}
	return nil, feedback, nil
}

func (s *Server) handleAlign(_ context.Context, _ *mcp.CallToolRequest, args alignArgs) (*mcp.CallToolResult, *alignResult, error) {
	if args.Document == "" {
		return nil, nil, fmt.Errorf("document is required")
	}

	resolved := make(map[string]bool, len(args.Resolved))
	for _, id := range args.Resolved {
		resolved[id] = true
	}

	matches := align.BuildMatches(args.Document, args.Annotations, resolved)
	return nil, &alignResult{
		Matches:  matches,
		Segments: align.SegmentDocument(args.Document, matches),
	}, nil
}

func (s *Server) handleLookup(ctx context.Context, _ *mcp.CallToolRequest, args lookupArgs) (*mcp.CallToolResult, *provider.DictionaryEntry, error) {
	if args.Word == "" {
		return nil, nil, fmt.Errorf("word is required")
	}
	entry, err := s.ai.Lookup(ctx, args.Word, args.Context)
	if err != nil {
		return nil, nil, fmt.Errorf("looking up %q: %w", args.Word, err)
	}
	return nil, entry, nil
}
