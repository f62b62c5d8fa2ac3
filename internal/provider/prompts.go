package provider

import (
	"fmt"
	"strings"
)

// toneInstructions maps the UI tone presets to prompt instructions.
var toneInstructions = map[string]string{
	"Academic":       "学术正式风格，使用复杂句式和高级词汇",
	"Conversational": "口语化风格，自然流畅",
	"Polite":         "礼貌正式风格，适用于书信申请",
	"Neutral":        "中立客观风格，适用于托福综合写作",
	"Debate":         "辩论风格，观点鲜明，论证有力",
}

// CorrectionPrompt builds the essay grading prompt. The model must answer with
// the exact JSON shape ParseFeedback validates.
func CorrectionPrompt(content string) string {
	return fmt.Sprintf(`You are an expert IELTS/TOEFL essay examiner. Analyze the following essay and provide detailed feedback.

Essay to analyze:
"""
%s
"""

Instructions:
1. Provide an overall IELTS band score (0-9, can use decimals like 7.5)
2. Give a brief summary in Chinese about the essay quality
3. Break down scores into 4 dimensions: 词汇 (Vocabulary), 语法 (Grammar), 逻辑 (Logic), 连贯性 (Coherence)
4. Identify 3-5 specific issues in the essay with:
   - The EXACT original text that needs correction (must be verbatim from the essay)
   - Suggested replacement
   - Reason in Chinese explaining the improvement
5. Categorize each issue as: "grammar" (grammatical errors), "vocabulary" (word choice improvements), or "logic" (logical flow issues)
6. Generate unique IDs for each annotation in format "ann-1", "ann-2", etc.

Focus on the most impactful improvements that would help a student improve their writing.

IMPORTANT: You MUST respond with ONLY a valid JSON object in exactly this format, no other text:
{
  "score": <number between 0-9>,
  "summary": "<brief summary in Chinese>",
  "breakdown": [
    {"label": "词汇", "value": <number>},
    {"label": "语法", "value": <number>},
    {"label": "逻辑", "value": <number>},
    {"label": "连贯性", "value": <number>}
  ],
  "annotations": [
    {
      "id": "ann-1",
      "type": "grammar|vocabulary|logic",
      "originalText": "<exact text from essay>",
      "suggestion": "<improved text>",
      "reason": "<explanation in Chinese>"
    }
  ]
}`, content)
}

// GenerationPrompt builds the essay drafting prompt.
func GenerationPrompt(topic, tone string, words int) string {
	instruction, ok := toneInstructions[tone]
	if !ok {
		instruction = toneInstructions["Academic"]
	}

	return fmt.Sprintf(`You are an expert IELTS/TOEFL essay writing tutor. Generate a well-structured English essay based on the following requirements:

Topic: %s
Tone: %s
Target Word Count: approximately %d words

Requirements:
1. The essay MUST have clear structure with Introduction, Body paragraphs, and Conclusion
2. Use appropriate academic vocabulary and varied sentence structures
3. Include topic sentences, supporting details, and smooth transitions
4. Maintain logical flow and coherence throughout
5. Output ONLY the essay content, no additional commentary

Begin the essay now:`, topic, instruction, words)
}

// AskSystemPrompt frames a free-form question about selected essay text.
func AskSystemPrompt(selection string) string {
	return fmt.Sprintf(`You are a helpful AI writing assistant. The user has selected the following text:
%q

Answer the user's request regarding this text. Be concise, helpful, and professional.`, selection)
}

// BrainstormPrompt asks for essay title suggestions as a strict JSON array.
func BrainstormPrompt(topic string) string {
	return fmt.Sprintf(`Based on the broad topic %q, suggest 5 specific, engaging, and suitable essay titles or prompts for an English writing task (IELTS/TOEFL level).

Output format: STRICT JSON array of strings. Example: ["Title 1", "Title 2", ...]
Do not output anything else.`, topic)
}

// LookupPrompt builds the dictionary lookup prompt.
func LookupPrompt(word, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Look up the English word %q and provide comprehensive information.\n", word)
	if context != "" {
		fmt.Fprintf(&b, "Context: %q\n", context)
	}
	fmt.Fprintf(&b, `
Return a JSON object with exactly this structure:
{
  "word": %q,
  "phonetic": "IPA phonetic transcription (e.g., /ˈeksəmpəl/)",
  "partOfSpeech": ["noun", "verb"],
  "definitions": [
    {
      "pos": "noun",
      "meaning": "中文释义",
      "example": "Example sentence in English",
      "exampleTranslation": "例句的中文翻译"
    }
  ],
  "synonyms": ["synonym1", "synonym2"],
  "antonyms": ["antonym1"]
}

Provide 2-3 most common definitions, 3-5 synonyms, and 1-3 antonyms if applicable.
Focus on the most useful and common usages.
Return ONLY valid JSON, no other text.`, word)
	return b.String()
}

// TranslatePrompt builds the English-to-Chinese translation prompt.
func TranslatePrompt(text, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following English text to Chinese:\n%q\n", text)
	if context != "" {
		fmt.Fprintf(&b, "Context: %q\n", context)
	}
	fmt.Fprintf(&b, `
Return a JSON object with exactly this structure:
{
  "originalText": %q,
  "translation": "中文翻译",
  "explanation": "如有习语或文化背景需要解释，在此说明（可选）"
}

Provide a natural, fluent Chinese translation. If there are any idioms or cultural references, briefly explain them.
Return ONLY valid JSON, no other text.`, text)
	return b.String()
}

// SynonymsPrompt builds the ranked-synonyms prompt.
func SynonymsPrompt(word, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find synonyms for the English word/phrase %q.\n", word)
	if context != "" {
		fmt.Fprintf(&b, "Context: %q\n", context)
	}
	fmt.Fprintf(&b, `
Return a JSON object with exactly this structure:
{
  "word": %q,
  "synonyms": [
    {
      "word": "synonym word",
      "similarity": "exact|close|related",
      "usage": "简短的中文用法说明",
      "example": "A short example sentence using this synonym"
    }
  ]
}

Provide 5-8 synonyms with:
- similarity: "exact" for same meaning, "close" for very similar, "related" for somewhat similar
- usage: Brief Chinese explanation of when to use this synonym
- example: A short example sentence

Consider the context when selecting appropriate synonyms.
Return ONLY valid JSON, no other text.`, word)
	return b.String()
}
