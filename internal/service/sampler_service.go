package service

import (
	"math/rand"
	"time"

	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/util"

	"github.com/google/uuid"
)

// SamplerService draws question subsets for one sitting.
type SamplerService struct {
	minPoolSize int
}

func NewSamplerService(minPoolSize int) *SamplerService {
	return &SamplerService{minPoolSize: minPoolSize}
}

// SetMinPoolSize adjusts the draw floor (config hot reload).
func (s *SamplerService) SetMinPoolSize(n int) {
	if n > 0 {
		s.minPoolSize = n
	}
}

// Draw selects n distinct questions from the pool uniformly at random
// without replacement. It fails with ErrInsufficientPool when the pool is
// below the configured minimum or cannot cover n. Two draws are always
// independent selections; there is no seeding contract.
func (s *SamplerService) Draw(uploadID string, pool []model.Question, n int) (*model.QuizSession, error) {
	if len(pool) < s.minPoolSize || n > len(pool) || n < 1 {
		return nil, util.ErrInsufficientPool
	}

	selected := make([]model.Question, 0, n)
	for _, idx := range rand.Perm(len(pool))[:n] {
		selected = append(selected, pool[idx])
	}

	return &model.QuizSession{
		ID:        uuid.New().String(),
		UploadID:  uploadID,
		Source:    model.SourceRandomDraw,
		Questions: selected,
		CreatedAt: time.Now(),
	}, nil
}

// DrawWorst builds a session directly from a pre-ranked question list
// (highest miss rate first), bypassing random sampling.
func (s *SamplerService) DrawWorst(uploadID string, ranked []model.Question) (*model.QuizSession, error) {
	if len(ranked) == 0 {
		return nil, util.ErrInsufficientPool
	}

	selected := make([]model.Question, len(ranked))
	copy(selected, ranked)

	return &model.QuizSession{
		ID:        uuid.New().String(),
		UploadID:  uploadID,
		Source:    model.SourceWorstRetry,
		Questions: selected,
		CreatedAt: time.Now(),
	}, nil
}
