package service

import (
	"sort"

	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/repository"
	"gis_quiz_backend/internal/util"
)

// StatsService computes aggregate accuracy views over the full history
// log. Every method is a pure read; the log is never written here.
type StatsService struct {
	History *repository.HistoryRepository
}

func NewStatsService(history *repository.HistoryRepository) *StatsService {
	return &StatsService{History: history}
}

// OverviewStats is the whole-log accuracy summary. HasData distinguishes
// the explicit no-history state from a genuinely zero score.
type OverviewStats struct {
	HasData  bool    `json:"hasData"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// LabelStats is one row of the per-question-type accuracy table.
type LabelStats struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// DateStats is one row of the per-day accuracy trend.
type DateStats struct {
	Date     string  `json:"date"`
	Count    int     `json:"count"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// WorstStats is one row of the miss-rate ranking.
type WorstStats struct {
	Question      string  `json:"question"`
	Label         string  `json:"label"`
	CorrectAnswer string  `json:"correctAnswer"`
	Count         int     `json:"count"`
	Correct       int     `json:"correct"`
	MissRate      float64 `json:"missRate"`
}

func (s *StatsService) Overview() (OverviewStats, error) {
	records, err := s.History.ListAll()
	if err != nil {
		return OverviewStats{}, err
	}
	if len(records) == 0 {
		return OverviewStats{}, nil
	}

	correct := 0
	for _, r := range records {
		if r.IsCorrect() {
			correct++
		}
	}
	return OverviewStats{
		HasData:  true,
		Total:    len(records),
		Correct:  correct,
		Accuracy: util.Percent(correct, len(records)),
	}, nil
}

// ByLabel groups the log by display label, rows ordered by label.
func (s *StatsService) ByLabel() ([]LabelStats, error) {
	records, err := s.History.ListAll()
	if err != nil {
		return nil, err
	}

	counts := map[string]*LabelStats{}
	var order []string
	for _, r := range records {
		row, ok := counts[r.Label]
		if !ok {
			row = &LabelStats{Label: r.Label}
			counts[r.Label] = row
			order = append(order, r.Label)
		}
		row.Count++
		if r.IsCorrect() {
			row.Correct++
		}
	}

	sort.Strings(order)
	out := make([]LabelStats, 0, len(order))
	for _, label := range order {
		row := counts[label]
		row.Accuracy = util.Percent(row.Correct, row.Count)
		out = append(out, *row)
	}
	return out, nil
}

// ByDate groups the log by the date portion of each timestamp, ordered by
// date ascending.
func (s *StatsService) ByDate() ([]DateStats, error) {
	records, err := s.History.ListAll()
	if err != nil {
		return nil, err
	}

	counts := map[string]*DateStats{}
	var order []string
	for _, r := range records {
		date := r.Timestamp
		if len(date) > len(util.DateFormat) {
			date = date[:len(util.DateFormat)]
		}
		row, ok := counts[date]
		if !ok {
			row = &DateStats{Date: date}
			counts[date] = row
			order = append(order, date)
		}
		row.Count++
		if r.IsCorrect() {
			row.Correct++
		}
	}

	sort.Strings(order)
	out := make([]DateStats, 0, len(order))
	for _, date := range order {
		row := counts[date]
		row.Accuracy = util.Percent(row.Correct, row.Count)
		out = append(out, *row)
	}
	return out, nil
}

// WorstRanking groups by (question, label, correct answer) and ranks by
// miss rate descending, ties broken by first appearance in the log. At most
// limit rows are returned.
func (s *StatsService) WorstRanking(limit int) ([]WorstStats, error) {
	records, err := s.History.ListAll()
	if err != nil {
		return nil, err
	}

	type key struct{ question, label, answer string }
	counts := map[key]*WorstStats{}
	var order []key
	for _, r := range records {
		k := key{r.Question, r.Label, r.CorrectAnswer}
		row, ok := counts[k]
		if !ok {
			row = &WorstStats{Question: r.Question, Label: r.Label, CorrectAnswer: r.CorrectAnswer}
			counts[k] = row
			order = append(order, k)
		}
		row.Count++
		if r.IsCorrect() {
			row.Correct++
		}
	}

	out := make([]WorstStats, 0, len(order))
	for _, k := range order {
		row := counts[k]
		row.MissRate = float64(row.Count-row.Correct) / float64(row.Count)
		out = append(out, *row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MissRate > out[j].MissRate
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MatchPool maps ranking rows back onto a live question pool by question
// text and label, preserving ranking order. Rows with no counterpart in the
// pool (stale history) are skipped.
func MatchPool(ranking []WorstStats, pool []model.Question) []model.Question {
	var matched []model.Question
	for _, row := range ranking {
		for _, q := range pool {
			if q.Text == row.Question && q.Label == row.Label {
				matched = append(matched, q)
				break
			}
		}
	}
	return matched
}
