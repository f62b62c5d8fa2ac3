// Package stats computes dashboard aggregates from stored essays. Everything
// here is a pure function so the HTTP layer can stay a thin adapter.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/redpen-dev/redpen/internal/models"
)

// readingWPM is the assumed silent reading speed for the editor status bar.
const readingWPM = 180

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingMinutes estimates reading time for text, never less than one minute
// for non-empty text.
func ReadingMinutes(text string) int {
	words := WordCount(text)
	if words == 0 {
		return 0
	}
	minutes := words / readingWPM
	if minutes < 1 {
		return 1
	}
	return minutes
}

// TrendPoint is one scored essay on the dashboard trend chart.
type TrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	Title string  `json:"title"`
}

// HeatmapCell is one day of writing activity.
type HeatmapCell struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Words int    `json:"words"`
}

// Summary is the dashboard aggregate payload.
type Summary struct {
	TotalEssays  int           `json:"total_essays"`
	TotalWords   int           `json:"total_words"`
	AverageScore float64       `json:"average_score"`
	StreakDays   int           `json:"streak_days"`
	ScoreTrend   []TrendPoint  `json:"score_trend"`
	Heatmap      []HeatmapCell `json:"heatmap"`
}

// Summarize aggregates essays into the dashboard payload. now anchors the
// streak calculation.
func Summarize(essays []models.Essay, now time.Time) Summary {
	s := Summary{
		TotalEssays: len(essays),
		ScoreTrend:  []TrendPoint{},
		Heatmap:     []HeatmapCell{},
	}

	var scoreSum float64
	var scored int
	byDay := map[string]*HeatmapCell{}

	for _, essay := range essays {
		s.TotalWords += essay.WordCount

		day := essay.UpdatedAt.Format("2006-01-02")
		cell, ok := byDay[day]
		if !ok {
			cell = &HeatmapCell{Date: day}
			byDay[day] = cell
		}
		cell.Count++
		cell.Words += essay.WordCount

		if essay.AIScore != nil {
			scoreSum += *essay.AIScore
			scored++
			s.ScoreTrend = append(s.ScoreTrend, TrendPoint{
				Date:  day,
				Score: *essay.AIScore,
				Title: essay.Title,
			})
		}
	}

	if scored > 0 {
		s.AverageScore = scoreSum / float64(scored)
	}

	sort.Slice(s.ScoreTrend, func(i, j int) bool {
		return s.ScoreTrend[i].Date < s.ScoreTrend[j].Date
	})

	for _, cell := range byDay {
		s.Heatmap = append(s.Heatmap, *cell)
	}
	sort.Slice(s.Heatmap, func(i, j int) bool {
		return s.Heatmap[i].Date < s.Heatmap[j].Date
	})

	s.StreakDays = streak(byDay, now)
	return s
}

// streak counts consecutive days with activity ending today or yesterday. A
// gap of one day (nothing yet today) keeps yesterday's streak alive.
func streak(byDay map[string]*HeatmapCell, now time.Time) int {
	day := now
	if _, ok := byDay[day.Format("2006-01-02")]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	count := 0
	for {
		if _, ok := byDay[day.Format("2006-01-02")]; !ok {
			break
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
