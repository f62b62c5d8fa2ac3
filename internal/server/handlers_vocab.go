package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/redpen-dev/redpen/internal/models"
	"github.com/redpen-dev/redpen/internal/store"
)

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	filter := store.VocabFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	items, total, err := s.store.ListWords(r.Context(), filter)
	if err != nil {
		log.Printf("[ERROR] listing vocabulary: %v", err)
		writeError(w, http.StatusInternalServerError, "获取生词列表失败")
		return
	}

	writeJSON(w, http.StatusOK, paginated{
		Data:   items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req models.VocabularyItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		writeError(w, http.StatusBadRequest, "单词不能为空")
		return
	}

	item, err := s.store.AddWord(r.Context(), req)
	if errors.Is(err, store.ErrDuplicateWord) {
		writeError(w, http.StatusConflict, "该单词已在生词本中")
		return
	}
	if err != nil {
		log.Printf("[ERROR] adding word: %v", err)
		writeError(w, http.StatusInternalServerError, "添加生词失败")
		return
	}

	s.indexWord(r, item.Word)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data":    item,
		"message": "生词添加成功",
	})
}

// indexWord embeds the word and adds it to the related-words index.
// Best effort; a failure only degrades suggestions.
func (s *Server) indexWord(r *http.Request, word string) {
	if s.index == nil {
		return
	}
	vec, err := s.ai.Embed(r.Context(), word)
	if err != nil {
		log.Printf("[ERROR] embedding %q: %v", word, err)
		return
	}
	if err := s.index.Add(r.Context(), word, vec); err != nil {
		log.Printf("[ERROR] indexing %q: %v", word, err)
	}
}

func (s *Server) handleGetWord(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetWord(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrWordNotFound) {
		writeError(w, http.StatusNotFound, "生词不存在")
		return
	}
	if err != nil {
		log.Printf("[ERROR] getting word: %v", err)
		writeError(w, http.StatusInternalServerError, "获取生词失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": item})
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetWord(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrWordNotFound) {
		writeError(w, http.StatusNotFound, "生词不存在")
		return
	}
	if err == nil {
		err = s.store.DeleteWord(r.Context(), item.ID)
	}
	if err != nil {
		log.Printf("[ERROR] deleting word: %v", err)
		writeError(w, http.StatusInternalServerError, "删除生词失败")
		return
	}

	if s.index != nil {
		if err := s.index.Remove(r.Context(), item.Word); err != nil {
			log.Printf("[ERROR] unindexing %q: %v", item.Word, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "生词删除成功"})
}

// relatedWord is one related-words suggestion.
type relatedWord struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

func (s *Server) handleRelatedWords(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		writeError(w, http.StatusNotImplemented, "相关词推荐未启用")
		return
	}

	item, err := s.store.GetWord(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrWordNotFound) {
		writeError(w, http.StatusNotFound, "生词不存在")
		return
	}
	if err != nil {
		log.Printf("[ERROR] getting word: %v", err)
		writeError(w, http.StatusInternalServerError, "获取生词失败")
		return
	}

	vec, err := s.ai.Embed(r.Context(), item.Word)
	if err != nil {
		log.Printf("[ERROR] embedding %q: %v", item.Word, err)
		writeError(w, http.StatusInternalServerError, "相关词推荐暂时不可用")
		return
	}

	topK := queryInt(r, "limit", 5)
	results, err := s.index.Search(r.Context(), vec, topK+1)
	if err != nil {
		log.Printf("[ERROR] searching index: %v", err)
		writeError(w, http.StatusInternalServerError, "相关词推荐暂时不可用")
		return
	}

	related := make([]relatedWord, 0, topK)
	for _, res := range results {
		if res.Word == item.Word {
			continue
		}
		related = append(related, relatedWord{Word: res.Word, Score: res.Score})
		if len(related) == topK {
			break
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": related})
}
