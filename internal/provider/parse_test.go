package provider

import (
	"testing"

	"github.com/redpen-dev/redpen/internal/models"
)

const validFeedbackJSON = `{
  "score": 7.4,
  "summary": "词汇和论证结构表现稳健。",
  "breakdown": [
    {"label": "词汇", "value": 7.5},
    {"label": "语法", "value": 6.5},
    {"label": "逻辑", "value": 7.0},
    {"label": "连贯性", "value": 7.5}
  ],
  "annotations": [
    {
      "id": "ann-1",
      "type": "grammar",
      "originalText": "They provides free internet.",
      "suggestion": "They provide free internet access.",
      "reason": "主谓一致错误。"
    }
  ]
}`

func TestParseFeedback_Valid(t *testing.T) {
	fb, err := ParseFeedback(validFeedbackJSON)
	if err != nil {
		t.Fatalf("ParseFeedback() error = %v", err)
	}

	if fb.Score != 7.4 {
		t.Errorf("Score = %v, want 7.4", fb.Score)
	}
	if len(fb.Breakdown) != 4 {
		t.Errorf("got %d breakdown items, want 4", len(fb.Breakdown))
	}
	if len(fb.Annotations) != 1 {
		t.Fatalf("got %d annotations, want 1", len(fb.Annotations))
	}
	if fb.Annotations[0].Type != models.AnnotationGrammar {
		t.Errorf("annotation type = %q, want grammar", fb.Annotations[0].Type)
	}
}

func TestParseFeedback_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validFeedbackJSON + "\n```"
	if _, err := ParseFeedback(fenced); err != nil {
		t.Errorf("ParseFeedback() with fences error = %v", err)
	}
}

func TestParseFeedback_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the essay is great"},
		{"score too high", `{"score": 9.5, "summary": "s", "annotations": []}`},
		{"negative score", `{"score": -1, "summary": "s", "annotations": []}`},
		{
			"unknown type",
			`{"score": 7, "annotations": [{"id": "a", "type": "style", "originalText": "x", "suggestion": "y"}]}`,
		},
		{
			"missing id",
			`{"score": 7, "annotations": [{"type": "grammar", "originalText": "x", "suggestion": "y"}]}`,
		},
		{
			"missing originalText",
			`{"score": 7, "annotations": [{"id": "a", "type": "grammar", "originalText": "  ", "suggestion": "y"}]}`,
		},
		{
			"duplicate ids",
			`{"score": 7, "annotations": [
				{"id": "a", "type": "grammar", "originalText": "x", "suggestion": "y"},
				{"id": "a", "type": "logic", "originalText": "z", "suggestion": "w"}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFeedback(tt.raw); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestParseFeedback_EmptySuggestionIsDeletion(t *testing.T) {
	raw := `{"score": 7, "annotations": [{"id": "a", "type": "grammar", "originalText": "very ", "suggestion": ""}]}`
	fb, err := ParseFeedback(raw)
	if err != nil {
		t.Fatalf("ParseFeedback() error = %v", err)
	}
	if fb.Annotations[0].Suggestion != "" {
		t.Error("empty suggestion should survive as a pure deletion")
	}
}

func TestParseBrainstorm(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `["Title 1", "Title 2", "Title 3"]`, 3},
		{"topics key", `{"topics": ["A", "B"]}`, 2},
		{"other array key", `{"suggestions": ["A", "B", "C", "D"]}`, 4},
		{"quoted fallback", `Here you go: "First title" and "Second title"`, 2},
		{"fenced array", "```json\n[\"One\"]\n```", 1},
		{"nothing usable", `42`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBrainstorm(tt.raw)
			if len(got) != tt.want {
				t.Errorf("got %d suggestions %v, want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestParseDictionaryEntry(t *testing.T) {
	raw := `{
		"word": "tactile",
		"phonetic": "/ˈtæktaɪl/",
		"partOfSpeech": ["adjective"],
		"definitions": [{"pos": "adjective", "meaning": "触觉的", "example": "a tactile surface", "exampleTranslation": "可触摸的表面"}],
		"synonyms": ["tangible", "palpable"],
		"antonyms": ["intangible"]
	}`

	entry, err := ParseDictionaryEntry(raw)
	if err != nil {
		t.Fatalf("ParseDictionaryEntry() error = %v", err)
	}
	if entry.Word != "tactile" || len(entry.Definitions) != 1 || len(entry.Synonyms) != 2 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	if _, err := ParseDictionaryEntry(`{"phonetic": "/x/"}`); err == nil {
		t.Error("expected error for entry without word")
	}
}

func TestParseSynonyms(t *testing.T) {
	raw := `{"word": "big", "synonyms": [{"word": "large", "similarity": "exact", "usage": "通用", "example": "A large house."}]}`

	res, err := ParseSynonyms(raw)
	if err != nil {
		t.Fatalf("ParseSynonyms() error = %v", err)
	}
	if res.Synonyms[0].Word != "large" {
		t.Errorf("first synonym = %q, want large", res.Synonyms[0].Word)
	}

	if _, err := ParseSynonyms(`{"word": "big", "synonyms": []}`); err == nil {
		t.Error("expected error for empty synonym list")
	}
}

func TestParseTranslation(t *testing.T) {
	res, err := ParseTranslation(`{"originalText": "civic commons", "translation": "公共市民空间"}`)
	if err != nil {
		t.Fatalf("ParseTranslation() error = %v", err)
	}
	if res.Translation != "公共市民空间" {
		t.Errorf("translation = %q", res.Translation)
	}

	if _, err := ParseTranslation(`{"originalText": "x"}`); err == nil {
		t.Error("expected error for missing translation")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\": 1}", "{\"a\": 1}"},
		{"```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"```\n[1]\n```", "[1]"},
		{"  {\"a\": 1}  ", "{\"a\": 1}"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
