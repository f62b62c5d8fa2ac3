package server

import (
	"log"
	"net/http"
	"time"

	"github.com/redpen-dev/redpen/internal/stats"
	"github.com/redpen-dev/redpen/internal/store"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	// The dashboard aggregates over the full history; 10000 is effectively
	// unbounded for a single writer.
	essays, _, err := s.store.ListEssays(r.Context(), store.EssayFilter{Limit: 10000})
	if err != nil {
		log.Printf("[ERROR] listing essays for stats: %v", err)
		writeError(w, http.StatusInternalServerError, "获取统计数据失败")
		return
	}

	writeJSON(w, http.StatusOK, stats.Summarize(essays, time.Now()))
}
