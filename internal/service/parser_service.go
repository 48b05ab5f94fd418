package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gis_quiz_backend/internal/model"
	"gis_quiz_backend/internal/util"
	"gis_quiz_backend/pkg/logger"

	"go.uber.org/zap"
)

// ParserService turns uploaded question files into normalized pools.
// Answer keys are resolved to their canonical form here and never
// re-interpreted afterwards.
type ParserService struct{}

func NewParserService() *ParserService {
	return &ParserService{}
}

// Parse loads a question pool from raw uploaded bytes in the given format
// (util.FormatDelimited or util.FormatJSON).
func (s *ParserService) Parse(data []byte, format string) ([]model.Question, error) {
	switch format {
	case util.FormatDelimited:
		return s.parseDelimited(data), nil
	case util.FormatJSON:
		return s.parseJSON(data)
	default:
		return nil, util.ErrUnsupportedFormat
	}
}

// parseDelimited reads the pipe-delimited bank format, one question per
// line: id|type|question|answer, with option columns appended for multiple
// choice. Rows that cannot form a well-formed question are dropped, never
// surfaced as errors.
func (s *ParserService) parseDelimited(data []byte) []model.Question {
	var questions []model.Question
	skipped := 0

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			skipped++
			continue
		}

		qtype := parts[1]
		text := parts[2]
		answerRaw := parts[3]

		q := model.Question{
			Type:  qtype,
			Label: model.LabelFor(qtype),
			Text:  text,
		}

		if qtype == model.TypeMultipleChoice {
			q.Options = stripOptionNumbers(parts[4:])
			q.Answer = resolveDelimitedAnswer(answerRaw, q.Options)
		} else {
			q.Answer = model.AnswerKey{Kind: model.AnswerLiteral, Text: strings.TrimSpace(answerRaw)}
		}

		questions = append(questions, q)
	}

	if skipped > 0 {
		logger.Log.Warn("dropped malformed bank rows", zap.Int("rows", skipped))
	}
	return questions
}

// stripOptionNumbers removes the optional leading "N) " label from each
// option before storage.
func stripOptionNumbers(raw []string) []string {
	options := make([]string, 0, len(raw))
	for _, opt := range raw {
		opt = strings.TrimSpace(opt)
		if i := strings.Index(opt, ")"); i >= 0 {
			opt = strings.TrimSpace(opt[i+1:])
		}
		options = append(options, opt)
	}
	return options
}

// resolveDelimitedAnswer maps the TXT answer column onto an option. The
// column is 1-based when numeric; an out-of-range index keeps the trimmed
// answer string as a literal answer rather than failing the row.
func resolveDelimitedAnswer(answerRaw string, options []string) model.AnswerKey {
	trimmed := strings.TrimSpace(answerRaw)
	if isDigits(trimmed) {
		idx, _ := strconv.Atoi(trimmed)
		idx--
		if idx >= 0 && idx < len(options) {
			return model.AnswerKey{Kind: model.AnswerOption, Text: options[idx]}
		}
	}
	return model.AnswerKey{Kind: model.AnswerLiteral, Text: trimmed}
}

// jsonQuestion mirrors one object of the JSON bank format. The answer field
// is polymorphic and kept raw until resolved.
type jsonQuestion struct {
	Type     string          `json:"type"`
	Question string          `json:"question"`
	Answer   json.RawMessage `json:"answer"`
	Options  []string        `json:"options"`
	Choices  []string        `json:"choices"`
}

// parseJSON reads the JSON bank format: a top-level array of objects.
// Unlike the delimited path, malformed JSON fails the whole load.
func (s *ParserService) parseJSON(data []byte) ([]model.Question, error) {
	var raw []jsonQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUnreadableFile, err)
	}

	questions := make([]model.Question, 0, len(raw))
	for _, jq := range raw {
		qtype := jq.Type
		if qtype == "" {
			qtype = model.TypeMultipleChoice
		}
		options := jq.Options
		if len(options) == 0 {
			options = jq.Choices
		}
		if options == nil {
			options = []string{}
		}

		questions = append(questions, model.Question{
			Type:    qtype,
			Label:   model.LabelFor(qtype),
			Text:    jq.Question,
			Options: options,
			Answer:  resolveJSONAnswer(jq.Answer, options),
		})
	}
	return questions, nil
}

// resolveJSONAnswer interprets the polymorphic JSON answer field. Two
// historical encodings coexist in old bank files and both are preserved:
//
//	a JSON integer is a 0-based index into options;
//	a string of digits is a 1-based index into options.
//
// Anything else is the literal correct-answer text. An index outside the
// option list yields the unresolved placeholder, which grades as always
// wrong instead of failing the load.
func resolveJSONAnswer(raw json.RawMessage, options []string) model.AnswerKey {
	if len(raw) == 0 {
		return model.AnswerKey{Kind: model.AnswerLiteral, Text: ""}
	}

	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		if asInt >= 0 && asInt < len(options) {
			return model.AnswerKey{Kind: model.AnswerOption, Text: options[asInt]}
		}
		return model.AnswerKey{Kind: model.AnswerUnresolved}
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		// answer is some other JSON shape; treat its text as literal
		return model.AnswerKey{Kind: model.AnswerLiteral, Text: string(raw)}
	}

	if isDigits(strings.TrimSpace(asString)) {
		idx, _ := strconv.Atoi(strings.TrimSpace(asString))
		idx--
		if idx >= 0 && idx < len(options) {
			return model.AnswerKey{Kind: model.AnswerOption, Text: options[idx]}
		}
		return model.AnswerKey{Kind: model.AnswerUnresolved}
	}
	return model.AnswerKey{Kind: model.AnswerLiteral, Text: asString}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
