package model

import "time"

// SessionSource records how a session's questions were picked.
const (
	SourceRandomDraw = "random-draw"
	SourceWorstRetry = "worst-performers-retry"
)

// QuizSession is one drawn subset of a question pool. The question order is
// the presentation order and is fixed once drawn; a re-draw replaces the
// session wholesale.
// swagger:model QuizSession
type QuizSession struct {
	ID        string     `json:"id"`
	UploadID  string     `json:"uploadId"`
	Source    string     `json:"source"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}
