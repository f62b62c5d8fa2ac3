package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/redpen-dev/redpen/internal/provider"
)

// minEssayLength is the smallest essay the grader accepts, in characters.
const minEssayLength = 50

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}

	if len(strings.TrimSpace(req.Content)) < minEssayLength {
		writeError(w, http.StatusBadRequest, "文章内容太短，请至少输入 50 个字符")
		return
	}

	feedback, err := s.ai.Correct(r.Context(), req.Content)
	if err != nil {
		log.Printf("[ERROR] correction: %v", err)
		writeError(w, http.StatusInternalServerError, "AI 批改服务暂时不可用，请稍后重试")
		return
	}

	writeJSON(w, http.StatusOK, feedback)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
		Tone  string `json:"tone"`
		Words int    `json:"words"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "缺少必要参数")
		return
	}

	tokens, err := s.ai.GenerateStream(r.Context(), req.Topic, req.Tone, req.Words)
	if err != nil {
		log.Printf("[ERROR] generate: %v", err)
		writeError(w, http.StatusInternalServerError, "AI 服务暂时不可用")
		return
	}

	streamPlainText(w, tokens)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "缺少必要参数")
		return
	}

	tokens, err := s.ai.Ask(r.Context(), req.Prompt, req.Text)
	if err != nil {
		log.Printf("[ERROR] ask: %v", err)
		writeError(w, http.StatusInternalServerError, "AI 服务暂时不可用")
		return
	}

	streamPlainText(w, tokens)
}

// streamPlainText writes token contents to the client as they arrive.
// A mid-stream error can only be logged; the status line is already sent.
func streamPlainText(w http.ResponseWriter, tokens <-chan provider.Token) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	flusher, _ := w.(http.Flusher)

	for tok := range tokens {
		if tok.Err != nil {
			log.Printf("[ERROR] stream: %v", tok.Err)
			return
		}
		if tok.Content == "" {
			continue
		}
		w.Write([]byte(tok.Content))
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) handleBrainstorm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "Topic is required")
		return
	}

	suggestions, err := s.ai.Brainstorm(r.Context(), req.Topic)
	if err != nil {
		log.Printf("[ERROR] brainstorm: %v", err)
		writeError(w, http.StatusInternalServerError, "AI 服务暂时不可用")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  string `json:"action"`
		Text    string `json:"text"`
		Context string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}
	if req.Text == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "缺少必要参数")
		return
	}

	var result interface{}
	var err error
	switch req.Action {
	case "lookup":
		result, err = s.ai.Lookup(r.Context(), req.Text, req.Context)
	case "translate":
		result, err = s.ai.Translate(r.Context(), req.Text, req.Context)
	case "synonyms":
		result, err = s.ai.Synonyms(r.Context(), req.Text, req.Context)
	default:
		writeError(w, http.StatusBadRequest, "无效的操作类型")
		return
	}

	if err != nil {
		log.Printf("[ERROR] dictionary %s: %v", req.Action, err)
		writeError(w, http.StatusInternalServerError, "词典服务暂时不可用，请稍后重试")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
