package service

import (
	"path/filepath"
	"testing"

	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/repository"
)

func statsFixture(t *testing.T, records []model.AttemptRecord) *StatsService {
	t.Helper()
	repo := repository.NewHistoryRepository(filepath.Join(t.TempDir(), "quiz_stats.csv"))
	if len(records) > 0 {
		if err := repo.AppendAttempts(records); err != nil {
			t.Fatalf("fixture append failed: %v", err)
		}
	}
	return NewStatsService(repo)
}

func attempt(ts, label, question, result string) model.AttemptRecord {
	return model.AttemptRecord{
		Timestamp:     ts,
		Type:          model.TypeShortGeneral,
		Label:         label,
		Question:      question,
		UserAnswer:    "u",
		CorrectAnswer: "a",
		Result:        result,
	}
}

func TestOverview_EmptyLog(t *testing.T) {
	s := statsFixture(t, nil)
	overview, err := s.Overview()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overview.HasData {
		t.Error("empty log must report hasData=false")
	}
}

func TestOverview_AllCorrect(t *testing.T) {
	var records []model.AttemptRecord
	for i := 0; i < 5; i++ {
		records = append(records, attempt("2025-08-30 10:00:00", "True/False", "q", model.ResultCorrect))
	}
	s := statsFixture(t, records)

	overview, err := s.Overview()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !overview.HasData || overview.Total != 5 || overview.Correct != 5 {
		t.Fatalf("overview = %+v", overview)
	}
	if overview.Accuracy != 100.0 {
		t.Errorf("accuracy = %v, want 100.0", overview.Accuracy)
	}

	rows, err := s.ByLabel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Count != 5 || rows[0].Correct != 5 {
		t.Errorf("per-label rows = %+v, want one row with count=5 correct=5", rows)
	}
}

func TestByLabel_Accuracy(t *testing.T) {
	var records []model.AttemptRecord
	for i := 0; i < 7; i++ {
		records = append(records, attempt("2025-08-30 10:00:00", "Acronym", "q", model.ResultCorrect))
	}
	for i := 0; i < 3; i++ {
		records = append(records, attempt("2025-08-30 10:00:00", "Acronym", "q", model.ResultIncorrect))
	}
	s := statsFixture(t, records)

	rows, err := s.ByLabel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one label row, got %d", len(rows))
	}
	if rows[0].Label != "Acronym" || rows[0].Count != 10 || rows[0].Correct != 7 {
		t.Fatalf("row = %+v", rows[0])
	}
	if rows[0].Accuracy != 70.0 {
		t.Errorf("accuracy = %v, want 70.0", rows[0].Accuracy)
	}
}

func TestByDate_AscendingOrder(t *testing.T) {
	s := statsFixture(t, []model.AttemptRecord{
		attempt("2025-08-30 09:00:00", "L", "q", model.ResultCorrect),
		attempt("2025-08-28 09:00:00", "L", "q", model.ResultIncorrect),
		attempt("2025-08-29 09:00:00", "L", "q", model.ResultCorrect),
		attempt("2025-08-28 18:00:00", "L", "q", model.ResultCorrect),
	})

	rows, err := s.ByDate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDates := []string{"2025-08-28", "2025-08-29", "2025-08-30"}
	if len(rows) != len(wantDates) {
		t.Fatalf("rows = %+v", rows)
	}
	for i, d := range wantDates {
		if rows[i].Date != d {
			t.Errorf("rows[%d].Date = %q, want %q", i, rows[i].Date, d)
		}
	}
	if rows[0].Count != 2 || rows[0].Correct != 1 {
		t.Errorf("2025-08-28 row = %+v, want count=2 correct=1", rows[0])
	}
}

func TestWorstRanking(t *testing.T) {
	var records []model.AttemptRecord
	// X: 4 attempts, 3 incorrect -> miss rate 0.75
	records = append(records,
		attempt("2025-08-30 09:00:00", "L", "X", model.ResultIncorrect),
		attempt("2025-08-30 09:00:00", "L", "X", model.ResultIncorrect),
		attempt("2025-08-30 09:00:00", "L", "X", model.ResultIncorrect),
		attempt("2025-08-30 09:00:00", "L", "X", model.ResultCorrect),
	)
	// Y: 2 attempts, 0 incorrect -> miss rate 0.0
	records = append(records,
		attempt("2025-08-30 09:00:00", "L", "Y", model.ResultCorrect),
		attempt("2025-08-30 09:00:00", "L", "Y", model.ResultCorrect),
	)
	s := statsFixture(t, records)

	rows, err := s.WorstRanking(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Question != "X" || rows[0].MissRate != 0.75 {
		t.Errorf("rows[0] = %+v, want X at 0.75", rows[0])
	}
	if rows[1].Question != "Y" || rows[1].MissRate != 0.0 {
		t.Errorf("rows[1] = %+v, want Y at 0.0", rows[1])
	}
}

func TestWorstRanking_TiesKeepLogOrderAndLimitApplies(t *testing.T) {
	var records []model.AttemptRecord
	for _, q := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		records = append(records, attempt("2025-08-30 09:00:00", "L", q, model.ResultIncorrect))
	}
	s := statsFixture(t, records)

	rows, err := s.WorstRanking(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("limit not applied, got %d rows", len(rows))
	}
	for i, q := range []string{"a", "b", "c", "d", "e"} {
		if rows[i].Question != q {
			t.Errorf("tie order broken at %d: got %q want %q", i, rows[i].Question, q)
		}
	}
}

func TestMatchPool(t *testing.T) {
	pool := []model.Question{
		{Text: "X", Label: "L"},
		{Text: "Y", Label: "L"},
	}
	ranking := []WorstStats{
		{Question: "Y", Label: "L"},
		{Question: "gone", Label: "L"},
		{Question: "X", Label: "L"},
	}

	matched := MatchPool(ranking, pool)
	if len(matched) != 2 {
		t.Fatalf("matched %d questions, want 2", len(matched))
	}
	if matched[0].Text != "Y" || matched[1].Text != "X" {
		t.Errorf("ranking order not preserved: %+v", matched)
	}
}
