package service

import (
	"strings"

	"gis_quiz_backend/internal/model"
)

// GraderService decides whether a submitted answer matches a question's
// stored key. Grading never mutates the question.
type GraderService struct{}

func NewGraderService() *GraderService {
	return &GraderService{}
}

// Grade compares the raw user input against the question's answer key.
//
// Free-text types compare case-insensitively after trimming. Multiple
// choice compares the chosen option text exactly (trim only): radio
// selections are not user-typed, so casefolding would mask bank errors.
// An unresolved key denies every input.
func (s *GraderService) Grade(q model.Question, userInput string) bool {
	if q.Answer.Kind == model.AnswerUnresolved {
		return false
	}
	if q.IsMultipleChoice() {
		return strings.TrimSpace(userInput) == strings.TrimSpace(q.Answer.Text)
	}
	return normalizeText(userInput) == normalizeText(q.Answer.Text)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
