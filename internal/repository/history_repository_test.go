package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/util"
)

func tempRepo(t *testing.T) *HistoryRepository {
	t.Helper()
	return NewHistoryRepository(filepath.Join(t.TempDir(), "quiz_stats.csv"))
}

func record(question, result string) model.AttemptRecord {
	return model.AttemptRecord{
		Timestamp:     "2025-08-30 10:00:00",
		Type:          model.TypeShortGeneral,
		Label:         "Short Answer",
		Question:      question,
		UserAnswer:    "user says",
		CorrectAnswer: "the answer",
		Result:        result,
	}
}

func TestListAll_MissingFileIsEmptyState(t *testing.T) {
	repo := tempRepo(t)
	records, err := repo.ListAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestAppendAttempts_RoundTrip(t *testing.T) {
	repo := tempRepo(t)

	batch := []model.AttemptRecord{
		record("q1", model.ResultCorrect),
		record("q2, with a comma", model.ResultIncorrect),
	}
	if err := repo.AppendAttempts(batch); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	got, err := repo.ListAll()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != len(batch) {
		t.Fatalf("read %d records, want %d", len(got), len(batch))
	}
	for i := range batch {
		if got[i] != batch[i] {
			t.Errorf("record %d mismatch:\n got %+v\nwant %+v", i, got[i], batch[i])
		}
	}
}

func TestAppendAttempts_PreservesPriorRows(t *testing.T) {
	repo := tempRepo(t)

	if err := repo.AppendAttempts([]model.AttemptRecord{record("first", model.ResultCorrect)}); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if err := repo.AppendAttempts([]model.AttemptRecord{
		record("second", model.ResultIncorrect),
		record("third", model.ResultCorrect),
	}); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	got, err := repo.ListAll()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 1+2 rows, got %d", len(got))
	}
	if got[0].Question != "first" || got[2].Question != "third" {
		t.Errorf("row order not preserved: %q ... %q", got[0].Question, got[2].Question)
	}

	// exactly one header line
	raw, err := os.ReadFile(repo.Path())
	if err != nil {
		t.Fatalf("read raw log: %v", err)
	}
	if n := strings.Count(string(raw), "timestamp,type,label"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}
}

func TestAppendAttempts_CorruptLogRejectsWholeBatch(t *testing.T) {
	repo := tempRepo(t)
	if err := os.WriteFile(repo.Path(), []byte("not,a,valid\nquiz log"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := repo.AppendAttempts([]model.AttemptRecord{record("q", model.ResultCorrect)})
	if !errors.Is(err, util.ErrHistoryCorrupt) {
		t.Fatalf("expected ErrHistoryCorrupt, got %v", err)
	}

	// the corrupt file must be untouched
	raw, _ := os.ReadFile(repo.Path())
	if strings.Contains(string(raw), "2025-08-30") {
		t.Error("batch was partially written to a corrupt log")
	}
}

func TestPing(t *testing.T) {
	repo := tempRepo(t)
	if err := repo.Ping(); err != nil {
		t.Fatalf("ping on a fresh store failed: %v", err)
	}

	if err := repo.AppendAttempts([]model.AttemptRecord{record("q", model.ResultCorrect)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Ping(); err != nil {
		t.Fatalf("ping on a valid log failed: %v", err)
	}
}
