package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/redpen-dev/redpen/internal/models"
)

// DictionaryDefinition is one sense of a looked-up word.
type DictionaryDefinition struct {
	Pos                string `json:"pos"`
	Meaning            string `json:"meaning"`
	Example            string `json:"example"`
	ExampleTranslation string `json:"exampleTranslation"`
}

// DictionaryEntry is the full dictionary lookup result.
type DictionaryEntry struct {
	Word         string                 `json:"word"`
	Phonetic     string                 `json:"phonetic"`
	PartOfSpeech []string               `json:"partOfSpeech"`
	Definitions  []DictionaryDefinition `json:"definitions"`
	Synonyms     []string               `json:"synonyms"`
	Antonyms     []string               `json:"antonyms"`
}

// Translation is an English-to-Chinese translation result.
type Translation struct {
	OriginalText string `json:"originalText"`
	Translation  string `json:"translation"`
	Explanation  string `json:"explanation,omitempty"`
}

// Synonym is one ranked synonym suggestion.
type Synonym struct {
	Word       string `json:"word"`
	Similarity string `json:"similarity"` // exact | close | related
	Usage      string `json:"usage"`
	Example    string `json:"example"`
}

// SynonymResult is the full synonyms lookup result.
type SynonymResult struct {
	Word     string    `json:"word"`
	Synonyms []Synonym `json:"synonyms"`
}

// stripFences removes a markdown code fence wrapper if the model added one
// despite JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseFeedback decodes and validates a correction response. It enforces the
// schema the aligner depends on: annotations with non-empty id and
// originalText, a known type, and a score in [0, 9]. A payload failing any
// check is rejected wholesale; no partial feedback ever crosses the boundary.
func ParseFeedback(raw string) (*models.AIFeedback, error) {
	var fb models.AIFeedback
	if err := json.Unmarshal([]byte(stripFences(raw)), &fb); err != nil {
		return nil, fmt.Errorf("invalid feedback JSON: %w", err)
	}

	if fb.Score < 0 || fb.Score > 9 {
		return nil, fmt.Errorf("score %.1f out of range [0, 9]", fb.Score)
	}

	seen := make(map[string]bool, len(fb.Annotations))
	for i, ann := range fb.Annotations {
		if ann.ID == "" {
			return nil, fmt.Errorf("annotation %d missing id", i)
		}
		if seen[ann.ID] {
			return nil, fmt.Errorf("duplicate annotation id %q", ann.ID)
		}
		seen[ann.ID] = true

		if !ann.Type.Valid() {
			return nil, fmt.Errorf("annotation %q has unknown type %q", ann.ID, ann.Type)
		}
		if strings.TrimSpace(ann.OriginalText) == "" {
			return nil, fmt.Errorf("annotation %q missing originalText", ann.ID)
		}
	}

	return &fb, nil
}

var reQuoted = regexp.MustCompile(`"([^"]+)"`)

// ParseBrainstorm extracts a list of title suggestions. Models in JSON mode
// wrap arrays in objects under varying keys, so extraction is deliberately
// tolerant: a bare array, any array-valued key, and finally quoted strings
// pulled straight out of the text.
func ParseBrainstorm(raw string) []string {
	raw = stripFences(raw)

	var direct []string
	if err := json.Unmarshal([]byte(raw), &direct); err == nil {
		return direct
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil {
		// Prefer the conventional key, then any array value.
		if v, ok := wrapped["topics"]; ok {
			var titles []string
			if err := json.Unmarshal(v, &titles); err == nil {
				return titles
			}
		}
		for _, v := range wrapped {
			var titles []string
			if err := json.Unmarshal(v, &titles); err == nil && len(titles) > 0 {
				return titles
			}
		}
	}

	var titles []string
	for _, m := range reQuoted.FindAllStringSubmatch(raw, -1) {
		titles = append(titles, m[1])
	}
	return titles
}

// ParseDictionaryEntry decodes a dictionary lookup response.
func ParseDictionaryEntry(raw string) (*DictionaryEntry, error) {
	var entry DictionaryEntry
	if err := json.Unmarshal([]byte(stripFences(raw)), &entry); err != nil {
		return nil, fmt.Errorf("invalid dictionary JSON: %w", err)
	}
	if entry.Word == "" {
		return nil, fmt.Errorf("dictionary entry missing word")
	}
	return &entry, nil
}

// ParseTranslation decodes a translation response.
func ParseTranslation(raw string) (*Translation, error) {
	var tr Translation
	if err := json.Unmarshal([]byte(stripFences(raw)), &tr); err != nil {
		return nil, fmt.Errorf("invalid translation JSON: %w", err)
	}
	if tr.Translation == "" {
		return nil, fmt.Errorf("translation response missing translation")
	}
	return &tr, nil
}

// ParseSynonyms decodes a synonyms response.
func ParseSynonyms(raw string) (*SynonymResult, error) {
	var res SynonymResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &res); err != nil {
		return nil, fmt.Errorf("invalid synonyms JSON: %w", err)
	}
	if len(res.Synonyms) == 0 {
		return nil, fmt.Errorf("synonyms response has no synonyms")
	}
	return &res, nil
}
