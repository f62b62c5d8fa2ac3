// Package provider implements the boundary to the external AI service: essay
// correction, generation, dictionary lookups, and embeddings over an
// OpenAI-compatible chat-completions API (DeepSeek by default).
//
// The rest of the system consumes only validated in-memory values; every
// response is checked against the expected schema here before it crosses
// the boundary.
package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redpen-dev/redpen/internal/models"
)

// Token is one chunk of a streamed completion.
type Token struct {
	Content string
	Done    bool
	Err     error
}

// Client is the interface the workbench depends on. *HTTPClient is the
// production implementation; tests substitute their own.
type Client interface {
	// Correct grades the essay and returns a validated feedback payload.
	Correct(ctx context.Context, content string) (*models.AIFeedback, error)

	// GenerateStream produces an essay draft as a token stream.
	GenerateStream(ctx context.Context, topic, tone string, words int) (<-chan Token, error)

	// Ask answers a free-form question about selected text, streamed.
	Ask(ctx context.Context, prompt, selection string) (<-chan Token, error)

	// Brainstorm suggests essay titles for a broad topic.
	Brainstorm(ctx context.Context, topic string) ([]string, error)

	// Lookup returns dictionary information for a word.
	Lookup(ctx context.Context, word, context string) (*DictionaryEntry, error)

	// Translate renders English text into Chinese.
	Translate(ctx context.Context, text, context string) (*Translation, error)

	// Synonyms finds ranked synonyms for a word or phrase.
	Synonyms(ctx context.Context, word, context string) (*SynonymResult, error)

	// Embed returns a dense vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config configures the HTTP provider client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.deepseek.com.
	BaseURL string

	// APIKey is the bearer token. Usually sourced from DEEPSEEK_API_KEY.
	APIKey string

	// Model is the chat model name.
	Model string

	// EmbeddingModel is the embeddings model name.
	EmbeddingModel string

	// Timeout bounds non-streaming requests.
	Timeout time.Duration
}

// DefaultConfig returns the DeepSeek defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.deepseek.com",
		Model:          "deepseek-chat",
		EmbeddingModel: "deepseek-embedding",
		Timeout:        120 * time.Second,
	}
}

// HTTPClient talks to an OpenAI-compatible completions API.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient creates a provider client, filling unset config fields with
// defaults.
func NewHTTPClient(cfg Config) *HTTPClient {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = def.EmbeddingModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &HTTPClient{
		cfg: cfg,
		// No client-level timeout: streaming responses stay open longer than
		// any sane fixed limit. Non-streaming calls bound themselves with a
		// context deadline instead.
		client: &http.Client{},
	}
}

// chatMessage is one message in a completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the OpenAI-compatible completions request body.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Stream         bool          `json:"stream"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type respFormat struct {
	Type string `json:"type"`
}

// chatResponse is the non-streaming completions response body.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatChunk is one server-sent event of a streamed completion.
type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// complete performs a non-streaming chat completion and returns the raw
// message content. jsonMode requests strict JSON output from the model.
func (c *HTTPClient) complete(ctx context.Context, messages []chatMessage, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}
	if jsonMode {
		req.ResponseFormat = &respFormat{Type: "json_object"}
	}

	resp, err := c.post(ctx, "/chat/completions", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// stream performs a streaming chat completion and forwards content deltas on
// the returned channel. The channel is closed after the final token.
func (c *HTTPClient) stream(ctx context.Context, messages []chatMessage) (<-chan Token, error) {
	req := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   true,
	}

	resp, err := c.post(ctx, "/chat/completions", req)
	if err != nil {
		return nil, err
	}

	out := make(chan Token)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				break
			}

			var chunk chatChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue // tolerate keep-alives and malformed events
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			if content := chunk.Choices[0].Delta.Content; content != "" {
				select {
				case out <- Token{Content: content}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			out <- Token{Err: fmt.Errorf("reading stream: %w", err)}
			return
		}
		out <- Token{Done: true}
	}()

	return out, nil
}

// embeddingRequest is the OpenAI-compatible embeddings request body.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the embeddings response body.
type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns a dense vector embedding for the given text.
func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.post(ctx, "/embeddings", embeddingRequest{
		Model: c.cfg.EmbeddingModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding response has no data")
	}
	return parsed.Data[0].Embedding, nil
}

// post sends a JSON POST and returns the response after a status check.
func (c *HTTPClient) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling provider: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return resp, nil
}

// Correct implements Client.
func (c *HTTPClient) Correct(ctx context.Context, content string) (*models.AIFeedback, error) {
	raw, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: CorrectionPrompt(content)},
	}, true)
	if err != nil {
		return nil, fmt.Errorf("correction request: %w", err)
	}

	feedback, err := ParseFeedback(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing correction response: %w", err)
	}
	return feedback, nil
}

// GenerateStream implements Client.
func (c *HTTPClient) GenerateStream(ctx context.Context, topic, tone string, words int) (<-chan Token, error) {
	return c.stream(ctx, []chatMessage{
		{Role: "user", Content: GenerationPrompt(topic, tone, words)},
	})
}

// Ask implements Client.
func (c *HTTPClient) Ask(ctx context.Context, prompt, selection string) (<-chan Token, error) {
	return c.stream(ctx, []chatMessage{
		{Role: "system", Content: AskSystemPrompt(selection)},
		{Role: "user", Content: prompt},
	})
}

// Brainstorm implements Client.
func (c *HTTPClient) Brainstorm(ctx context.Context, topic string) ([]string, error) {
	raw, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: BrainstormPrompt(topic)},
	}, true)
	if err != nil {
		return nil, fmt.Errorf("brainstorm request: %w", err)
	}
	return ParseBrainstorm(raw), nil
}

// Lookup implements Client.
func (c *HTTPClient) Lookup(ctx context.Context, word, context string) (*DictionaryEntry, error) {
	raw, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: LookupPrompt(word, context)},
	}, true)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	return ParseDictionaryEntry(raw)
}

// Translate implements Client.
func (c *HTTPClient) Translate(ctx context.Context, text, context string) (*Translation, error) {
	raw, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: TranslatePrompt(text, context)},
	}, true)
	if err != nil {
		return nil, fmt.Errorf("translate request: %w", err)
	}
	return ParseTranslation(raw)
}

// Synonyms implements Client.
func (c *HTTPClient) Synonyms(ctx context.Context, word, context string) (*SynonymResult, error) {
	raw, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: SynonymsPrompt(word, context)},
	}, true)
	if err != nil {
		return nil, fmt.Errorf("synonyms request: %w", err)
	}
	return ParseSynonyms(raw)
}
