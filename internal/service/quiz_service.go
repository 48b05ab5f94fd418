package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gis_quiz_backend/internal/config"
	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/repository"
	"gis_quiz_backend/internal/util"
	"gis_quiz_backend/pkg/logger"
	"gis_quiz_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuizService orchestrates the quiz flow: upload -> draw -> submit ->
// record. Pools and sessions are explicit values held in an in-memory
// registry keyed by uuid; handlers pass ids through instead of relying on
// any ambient "current session" state.
type QuizService struct {
	Parser  *ParserService
	Grader  *GraderService
	Sampler *SamplerService
	Stats   *StatsService
	History *repository.HistoryRepository

	mu       sync.RWMutex
	limits   config.QuizConfig
	pools    map[string]*poolEntry
	sessions map[string]*sessionEntry
}

type poolEntry struct {
	questions []model.Question
	filename  string
	createdAt time.Time
}

type sessionEntry struct {
	session    *model.QuizSession
	transcript string
	gradedAt   time.Time
}

func NewQuizService(parser *ParserService, grader *GraderService, sampler *SamplerService,
	stats *StatsService, history *repository.HistoryRepository, limits config.QuizConfig) *QuizService {
	return &QuizService{
		Parser:   parser,
		Grader:   grader,
		Sampler:  sampler,
		Stats:    stats,
		History:  history,
		limits:   limits,
		pools:    map[string]*poolEntry{},
		sessions: map[string]*sessionEntry{},
	}
}

// SetLimits swaps the quiz limits on config hot reload.
func (s *QuizService) SetLimits(limits config.QuizConfig) {
	s.mu.Lock()
	s.limits = limits
	s.mu.Unlock()
	s.Sampler.SetMinPoolSize(limits.MinPoolSize)
}

// PoolInfo describes an uploaded pool for the UI's count selector.
type PoolInfo struct {
	UploadID     string `json:"uploadId"`
	Filename     string `json:"filename"`
	Total        int    `json:"total"`
	MinPoolSize  int    `json:"minPoolSize"`
	DefaultCount int    `json:"defaultCount"`
	// Warning is set when the pool is below the draw minimum; no session
	// can be drawn from it until a larger file is uploaded.
	Warning string `json:"warning,omitempty"`
}

// Upload parses raw bytes in the declared format and registers the pool.
// A pool below the minimum is still registered so the UI can show what
// loaded, but the response carries a blocking warning.
func (s *QuizService) Upload(data []byte, declaredFormat, filename string) (*PoolInfo, error) {
	format, err := util.DetectFormat(declaredFormat, filename)
	if err != nil {
		return nil, err
	}

	questions, err := s.Parser.Parse(data, format)
	if err != nil {
		return nil, err
	}
	monitoring.QuestionsLoaded.Add(float64(len(questions)))

	id := uuid.New().String()
	s.mu.Lock()
	s.pools[id] = &poolEntry{questions: questions, filename: filename, createdAt: time.Now()}
	limits := s.limits
	s.mu.Unlock()

	logger.Log.Info("question pool loaded",
		zap.String("uploadId", id),
		zap.String("format", format),
		zap.Int("questions", len(questions)))

	return s.poolInfo(id, questions, filename, limits), nil
}

// Pool returns selector metadata for a registered pool.
func (s *QuizService) Pool(uploadID string) (*PoolInfo, error) {
	s.mu.RLock()
	entry, ok := s.pools[uploadID]
	limits := s.limits
	s.mu.RUnlock()
	if !ok {
		return nil, util.ErrPoolNotFound
	}
	return s.poolInfo(uploadID, entry.questions, entry.filename, limits), nil
}

func (s *QuizService) poolInfo(id string, questions []model.Question, filename string, limits config.QuizConfig) *PoolInfo {
	info := &PoolInfo{
		UploadID:     id,
		Filename:     filename,
		Total:        len(questions),
		MinPoolSize:  limits.MinPoolSize,
		DefaultCount: limits.DefaultDrawCount,
	}
	if info.DefaultCount > info.Total {
		info.DefaultCount = info.Total
	}
	if len(questions) < limits.MinPoolSize {
		info.Warning = fmt.Sprintf("only %d questions loaded; at least %d are required", len(questions), limits.MinPoolSize)
	}
	return info
}

// Draw creates a fresh random session from a pool, replacing nothing: the
// caller decides which session it keeps. count <= 0 picks the default.
func (s *QuizService) Draw(uploadID string, count int) (*model.QuizSession, error) {
	s.mu.RLock()
	entry, ok := s.pools[uploadID]
	limits := s.limits
	s.mu.RUnlock()
	if !ok {
		return nil, util.ErrPoolNotFound
	}

	if count <= 0 {
		count = limits.DefaultDrawCount
		if count > len(entry.questions) {
			count = len(entry.questions)
		}
	}

	session, err := s.Sampler.Draw(uploadID, entry.questions, count)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.mu.Unlock()
	return session, nil
}

// RetryWorst builds a session from the history's highest miss-rate
// questions that still exist in the pool.
func (s *QuizService) RetryWorst(uploadID string) (*model.QuizSession, error) {
	s.mu.RLock()
	entry, ok := s.pools[uploadID]
	limits := s.limits
	s.mu.RUnlock()
	if !ok {
		return nil, util.ErrPoolNotFound
	}

	ranking, err := s.Stats.WorstRanking(limits.WorstRetryCount)
	if err != nil {
		return nil, err
	}

	session, err := s.Sampler.DrawWorst(uploadID, MatchPool(ranking, entry.questions))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.mu.Unlock()
	return session, nil
}

// Session returns a previously drawn session for rendering.
func (s *QuizService) Session(sessionID string) (*model.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return entry.session, nil
}

// AnswerResult is the graded outcome for one question of an attempt.
type AnswerResult struct {
	Question      string `json:"question"`
	Label         string `json:"label"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
	Correct       bool   `json:"correct"`
}

// SubmitResult is the full outcome of one attempt. Persisted is false when
// the history append failed; the grading outcome is still complete and the
// persistence failure is carried separately.
type SubmitResult struct {
	SessionID    string         `json:"sessionId"`
	Score        int            `json:"score"`
	Total        int            `json:"total"`
	Results      []AnswerResult `json:"results"`
	Transcript   string         `json:"transcript"`
	Persisted    bool           `json:"persisted"`
	PersistError string         `json:"persistError,omitempty"`
}

// Submit grades an ordered answer list against the session's questions in
// lockstep, appends the attempt to the history log as one batch, and
// returns the score plus a downloadable transcript.
func (s *QuizService) Submit(sessionID string, answers []string) (*SubmitResult, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	session := entry.session
	if len(answers) != len(session.Questions) {
		return nil, util.ErrAnswerCountMismatch
	}

	now := time.Now()
	timestamp := now.Format(model.TimestampLayout)

	score := 0
	results := make([]AnswerResult, 0, len(session.Questions))
	records := make([]model.AttemptRecord, 0, len(session.Questions))

	for i, q := range session.Questions {
		userAnswer := answers[i]
		correct := s.Grader.Grade(q, userAnswer)
		if correct {
			score++
		}

		result := model.ResultIncorrect
		if correct {
			result = model.ResultCorrect
		}
		monitoring.AttemptsGraded.WithLabelValues(result).Inc()

		results = append(results, AnswerResult{
			Question:      q.Text,
			Label:         q.Label,
			CorrectAnswer: q.Answer.Display(),
			UserAnswer:    userAnswer,
			Correct:       correct,
		})
		records = append(records, model.AttemptRecord{
			Timestamp:     timestamp,
			Type:          q.Type,
			Label:         q.Label,
			Question:      q.Text,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.Answer.Display(),
			Result:        result,
		})
	}

	transcript := buildTranscript(now, score, results)

	out := &SubmitResult{
		SessionID:  sessionID,
		Score:      score,
		Total:      len(session.Questions),
		Results:    results,
		Transcript: transcript,
		Persisted:  true,
	}

	if err := s.History.AppendAttempts(records); err != nil {
		logger.Log.Error("attempt batch not persisted",
			zap.String("sessionId", sessionID), zap.Error(err))
		out.Persisted = false
		out.PersistError = err.Error()
	}

	s.mu.Lock()
	entry.transcript = transcript
	entry.gradedAt = now
	s.mu.Unlock()

	return out, nil
}

// Transcript returns the last graded attempt's transcript for download.
func (s *QuizService) Transcript(sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return "", util.ErrSessionNotFound
	}
	if entry.transcript == "" {
		return "", util.ErrNoAttempt
	}
	return entry.transcript, nil
}

// buildTranscript renders the human-readable attempt summary: a header with
// generation time and score fraction, then one numbered block per question.
func buildTranscript(at time.Time, score int, results []AnswerResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GIS Random Quiz Results - %s\n", at.Format(model.TimestampLayout))
	fmt.Fprintf(&b, "Score: %d / %d\n\n", score, len(results))
	for i, r := range results {
		tag := model.ResultIncorrect
		if r.Correct {
			tag = model.ResultCorrect
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, r.Label, r.Question)
		fmt.Fprintf(&b, "    - correct: %s | submitted: %s -> %s\n", r.CorrectAnswer, r.UserAnswer, tag)
	}
	return b.String()
}
