package model

// Result labels written to the history log, one per graded answer.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// TimestampLayout is the wall-clock format used in the history log and
// transcripts.
const TimestampLayout = "2006-01-02 15:04:05"

// HistoryColumns is the fixed column order of the history CSV.
var HistoryColumns = []string{
	"timestamp", "type", "label", "question", "user_answer", "correct_answer", "result",
}

// AttemptRecord is one graded answer, the unit of persistence. Records are
// appended to the history log and never mutated.
// swagger:model AttemptRecord
type AttemptRecord struct {
	Timestamp     string `json:"timestamp"`
	Type          string `json:"type"`
	Label         string `json:"label"`
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Result        string `json:"result"`
}

// IsCorrect reports whether the record was graded correct.
func (r AttemptRecord) IsCorrect() bool {
	return r.Result == ResultCorrect
}

// Row returns the record as a CSV row in HistoryColumns order.
func (r AttemptRecord) Row() []string {
	return []string{r.Timestamp, r.Type, r.Label, r.Question, r.UserAnswer, r.CorrectAnswer, r.Result}
}

// AttemptFromRow rebuilds a record from a CSV row. The caller guarantees
// the row has len(HistoryColumns) fields.
func AttemptFromRow(row []string) AttemptRecord {
	return AttemptRecord{
		Timestamp:     row[0],
		Type:          row[1],
		Label:         row[2],
		Question:      row[3],
		UserAnswer:    row[4],
		CorrectAnswer: row[5],
		Result:        row[6],
	}
}
