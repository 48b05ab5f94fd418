package model

// Question type tags as they appear in uploaded bank files. The bank format
// predates this service, so the tags stay in their original form; anything
// outside this set is carried through verbatim.
const (
	TypeTrueFalse      = "참거짓"
	TypeShortGeneral   = "단답형:일반"
	TypeShortBlank     = "단답형:빈칸"
	TypeShortKorean    = "단답형:한글"
	TypeShortAcronym   = "단답형:약자"
	TypeMultipleChoice = "객관식"
)

// TypeLabels maps a type tag to its display label.
var TypeLabels = map[string]string{
	TypeTrueFalse:      "True/False",
	TypeShortGeneral:   "Short Answer",
	TypeShortBlank:     "Fill in the Blank",
	TypeShortKorean:    "Korean Term",
	TypeShortAcronym:   "Acronym",
	TypeMultipleChoice: "Multiple Choice",
}

// LabelFor returns the display label for a type tag. Unknown tags display
// as-is rather than being rejected.
func LabelFor(qtype string) string {
	if label, ok := TypeLabels[qtype]; ok {
		return label
	}
	return qtype
}

// AnswerKind tags how an answer key was resolved at load time.
type AnswerKind int

const (
	// AnswerLiteral compares as free text (trim + casefold).
	AnswerLiteral AnswerKind = iota
	// AnswerOption is a resolved option text, compared exactly.
	AnswerOption
	// AnswerUnresolved marks an index that fell outside the option list.
	// It can never match any input.
	AnswerUnresolved
)

// AnswerKey is the canonical correct-answer representation. The source
// encodings (literal text, 0-based index, 1-based index) are resolved once
// during parsing and never re-interpreted afterwards.
type AnswerKey struct {
	Kind AnswerKind `json:"kind"`
	// Text is the display/compare form. Empty when Kind is AnswerUnresolved.
	Text string `json:"text"`
}

// Display returns the correct answer as shown in transcripts and the
// history log.
func (k AnswerKey) Display() string {
	if k.Kind == AnswerUnresolved {
		return "(unresolved)"
	}
	return k.Text
}

// Question is one unit of assessment, immutable once parsed.
// swagger:model Question
type Question struct {
	Type    string    `json:"type"`
	Label   string    `json:"label"`
	Text    string    `json:"question"`
	Options []string  `json:"options,omitempty"`
	Answer  AnswerKey `json:"-"`
}

// IsMultipleChoice reports whether the question renders as a single-choice
// widget rather than a free-text input.
func (q Question) IsMultipleChoice() bool {
	return q.Type == TypeMultipleChoice && len(q.Options) > 0
}
