package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gis_quiz_backend/internal/config"
	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/repository"
	"gis_quiz_backend/internal/util"
)

func testQuizService(t *testing.T) *QuizService {
	t.Helper()
	history := repository.NewHistoryRepository(filepath.Join(t.TempDir(), "quiz_history.csv"))
	limits := config.QuizConfig{
		MinPoolSize:      5,
		DefaultDrawCount: 5,
		WorstRetryCount:  5,
		MaxUploadBytes:   1 << 20,
	}
	return NewQuizService(
		NewParserService(),
		NewGraderService(),
		NewSamplerService(limits.MinPoolSize),
		NewStatsService(history),
		history,
		limits,
	)
}

func bankTxt(n int) []byte {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d|단답형:일반|question %c|answer %c\n", i+1, 'a'+i, 'a'+i)
	}
	return []byte(b.String())
}

func TestQuizFlow_UploadDrawSubmitTranscript(t *testing.T) {
	svc := testQuizService(t)

	info, err := svc.Upload(bankTxt(6), "txt", "bank.txt")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if info.Total != 6 || info.Warning != "" {
		t.Fatalf("pool info = %+v", info)
	}

	session, err := svc.Draw(info.UploadID, 0)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if len(session.Questions) != 5 {
		t.Fatalf("default draw size = %d, want 5", len(session.Questions))
	}
	if session.Source != model.SourceRandomDraw {
		t.Errorf("source = %q", session.Source)
	}

	got, err := svc.Session(session.ID)
	if err != nil || got.ID != session.ID {
		t.Fatalf("session lookup: %v, %+v", err, got)
	}

	// Answer the first question correctly (case differs, free text grading
	// folds case) and the rest wrong.
	answers := make([]string, len(session.Questions))
	answers[0] = strings.ToUpper(session.Questions[0].Answer.Text)
	for i := 1; i < len(answers); i++ {
		answers[i] = "wrong"
	}

	result, err := svc.Submit(session.ID, answers)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 1 || result.Total != 5 {
		t.Errorf("score = %d/%d, want 1/5", result.Score, result.Total)
	}
	if !result.Persisted {
		t.Errorf("attempt not persisted: %s", result.PersistError)
	}
	if !result.Results[0].Correct || result.Results[1].Correct {
		t.Errorf("results = %+v", result.Results)
	}

	transcript, err := svc.Transcript(session.ID)
	if err != nil {
		t.Fatalf("transcript failed: %v", err)
	}
	if !strings.HasPrefix(transcript, "GIS Random Quiz Results - ") {
		t.Errorf("transcript header missing:\n%s", transcript)
	}
	if !strings.Contains(transcript, "Score: 1 / 5") {
		t.Errorf("transcript score missing:\n%s", transcript)
	}

	overview, err := svc.Stats.Overview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if !overview.HasData || overview.Total != 5 || overview.Correct != 1 {
		t.Errorf("overview after submit = %+v", overview)
	}
}

func TestUpload_SmallPoolWarnsButRegisters(t *testing.T) {
	svc := testQuizService(t)

	info, err := svc.Upload(bankTxt(3), "txt", "small.txt")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if info.Warning == "" {
		t.Error("expected a below-minimum warning")
	}
	if _, err := svc.Pool(info.UploadID); err != nil {
		t.Errorf("small pool should still be registered: %v", err)
	}

	if _, err := svc.Draw(info.UploadID, 3); !errors.Is(err, util.ErrInsufficientPool) {
		t.Errorf("draw error = %v, want ErrInsufficientPool", err)
	}
}

func TestDraw_UnknownPool(t *testing.T) {
	svc := testQuizService(t)
	if _, err := svc.Draw("no-such-pool", 5); !errors.Is(err, util.ErrPoolNotFound) {
		t.Errorf("err = %v, want ErrPoolNotFound", err)
	}
}

func TestSubmit_AnswerCountMismatch(t *testing.T) {
	svc := testQuizService(t)

	info, err := svc.Upload(bankTxt(5), "txt", "bank.txt")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	session, err := svc.Draw(info.UploadID, 5)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	if _, err := svc.Submit(session.ID, []string{"one"}); !errors.Is(err, util.ErrAnswerCountMismatch) {
		t.Errorf("err = %v, want ErrAnswerCountMismatch", err)
	}
}

func TestTranscript_BeforeSubmit(t *testing.T) {
	svc := testQuizService(t)

	info, err := svc.Upload(bankTxt(5), "txt", "bank.txt")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	session, err := svc.Draw(info.UploadID, 5)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	if _, err := svc.Transcript(session.ID); !errors.Is(err, util.ErrNoAttempt) {
		t.Errorf("err = %v, want ErrNoAttempt", err)
	}
	if _, err := svc.Transcript("missing"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmit_PersistFailureKeepsGrading(t *testing.T) {
	histPath := filepath.Join(t.TempDir(), "quiz_history.csv")
	history := repository.NewHistoryRepository(histPath)
	limits := config.QuizConfig{
		MinPoolSize:      5,
		DefaultDrawCount: 5,
		WorstRetryCount:  5,
		MaxUploadBytes:   1 << 20,
	}
	svc := NewQuizService(
		NewParserService(),
		NewGraderService(),
		NewSamplerService(limits.MinPoolSize),
		NewStatsService(history),
		history,
		limits,
	)

	info, err := svc.Upload(bankTxt(5), "txt", "bank.txt")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	session, err := svc.Draw(info.UploadID, 5)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	// Corrupt the log so the append batch is rejected wholesale.
	if err := os.WriteFile(histPath, []byte("not,a,valid,row\n"), 0o644); err != nil {
		t.Fatalf("corrupting log failed: %v", err)
	}

	answers := make([]string, len(session.Questions))
	for i, q := range session.Questions {
		answers[i] = q.Answer.Text
	}

	result, err := svc.Submit(session.ID, answers)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Persisted {
		t.Error("append against a corrupt log must not report persisted")
	}
	if result.PersistError == "" {
		t.Error("persist failure must carry its error message")
	}
	if result.Score != 5 || result.Total != 5 {
		t.Errorf("score = %d/%d, want 5/5 despite persist failure", result.Score, result.Total)
	}
	if !strings.Contains(result.Transcript, "Score: 5 / 5") {
		t.Errorf("transcript missing despite persist failure:\n%s", result.Transcript)
	}

	transcript, err := svc.Transcript(session.ID)
	if err != nil {
		t.Fatalf("transcript after persist failure: %v", err)
	}
	if !strings.Contains(transcript, "Score: 5 / 5") {
		t.Errorf("stored transcript lost:\n%s", transcript)
	}
}

func TestRetryWorst_DrawsMissedQuestions(t *testing.T) {
	svc := testQuizService(t)

	info, err := svc.Upload(bankTxt(5), "txt", "bank.txt")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	session, err := svc.Draw(info.UploadID, 5)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	// Miss exactly one question so it tops the ranking.
	answers := make([]string, len(session.Questions))
	for i, q := range session.Questions {
		answers[i] = q.Answer.Text
	}
	missed := session.Questions[2].Text
	answers[2] = "wrong"
	if _, err := svc.Submit(session.ID, answers); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	retry, err := svc.RetryWorst(info.UploadID)
	if err != nil {
		t.Fatalf("retry-worst failed: %v", err)
	}
	if retry.Source != model.SourceWorstRetry {
		t.Errorf("source = %q", retry.Source)
	}
	if len(retry.Questions) == 0 || retry.Questions[0].Text != missed {
		t.Errorf("retry questions = %+v, want %q first", retry.Questions, missed)
	}
}

func TestRetryWorst_NoHistory(t *testing.T) {
	svc := testQuizService(t)

	info, err := svc.Upload(bankTxt(5), "txt", "bank.txt")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, err := svc.RetryWorst(info.UploadID); err == nil {
		t.Error("expected an error with no graded history")
	}
}
