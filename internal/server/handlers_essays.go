package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/redpen-dev/redpen/internal/models"
	"github.com/redpen-dev/redpen/internal/store"
)

// paginated is the list response envelope.
type paginated struct {
	Data   interface{} `json:"data"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (s *Server) handleListEssays(w http.ResponseWriter, r *http.Request) {
	filter := store.EssayFilter{
		Status: models.EssayStatus(r.URL.Query().Get("status")),
		Limit:  queryInt(r, "limit", 20),
		Offset: queryInt(r, "offset", 0),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "无效的状态值")
		return
	}

	essays, total, err := s.store.ListEssays(r.Context(), filter)
	if err != nil {
		log.Printf("[ERROR] listing essays: %v", err)
		writeError(w, http.StatusInternalServerError, "获取文章列表失败")
		return
	}

	writeJSON(w, http.StatusOK, paginated{
		Data:   essays,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (s *Server) handleCreateEssay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "标题不能为空")
		return
	}

	essay, err := s.store.CreateEssay(r.Context(), req.Title, req.Content)
	if err != nil {
		log.Printf("[ERROR] creating essay: %v", err)
		writeError(w, http.StatusInternalServerError, "创建文章失败")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data":    essay,
		"message": "文章创建成功",
	})
}

func (s *Server) handleGetEssay(w http.ResponseWriter, r *http.Request) {
	essay, err := s.store.GetEssay(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrEssayNotFound) {
		writeError(w, http.StatusNotFound, "文章不存在")
		return
	}
	if err != nil {
		log.Printf("[ERROR] getting essay: %v", err)
		writeError(w, http.StatusInternalServerError, "获取文章失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": essay})
}

func (s *Server) handleUpdateEssay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    *string             `json:"title"`
		Content  *string             `json:"content"`
		AIScore  *float64            `json:"ai_score"`
		Feedback *models.AIFeedback  `json:"ai_feedback"`
		Status   *models.EssayStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, "标题不能为空")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "无效的状态值")
		return
	}
	if req.Title == nil && req.Content == nil && req.AIScore == nil && req.Feedback == nil && req.Status == nil {
		writeError(w, http.StatusBadRequest, "没有提供要更新的字段")
		return
	}

	essay, err := s.store.UpdateEssay(r.Context(), r.PathValue("id"), store.EssayUpdate{
		Title:    req.Title,
		Content:  req.Content,
		AIScore:  req.AIScore,
		Feedback: req.Feedback,
		Status:   req.Status,
	})
	if errors.Is(err, store.ErrEssayNotFound) {
		writeError(w, http.StatusNotFound, "文章不存在")
		return
	}
	if err != nil {
		log.Printf("[ERROR] updating essay: %v", err)
		writeError(w, http.StatusInternalServerError, "更新文章失败")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":    essay,
		"message": "文章更新成功",
	})
}

func (s *Server) handleDeleteEssay(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteEssay(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrEssayNotFound) {
		writeError(w, http.StatusNotFound, "文章不存在")
		return
	}
	if err != nil {
		log.Printf("[ERROR] deleting essay: %v", err)
		writeError(w, http.StatusInternalServerError, "删除文章失败")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "文章删除成功"})
}
