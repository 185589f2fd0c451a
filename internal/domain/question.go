package domain

// QuestionType identifies the shape of a question and of its reference answer.
type QuestionType string

const (
	SingleChoice  QuestionType = "SINGLE_CHOICE"
	MultiSelect   QuestionType = "MULTI_SELECT"
	PredictOutput QuestionType = "PREDICT_OUTPUT"
)

// DefaultQuestionTypes are the kinds the generator picks from when a request
// does not name any.
func DefaultQuestionTypes() []QuestionType {
	return []QuestionType{SingleChoice, MultiSelect, PredictOutput}
}

// ParseQuestionType maps a wire value to a QuestionType. Unknown values are
// passed through unchanged; the comparator has a safe default arm for them.
func ParseQuestionType(s string) QuestionType {
	return QuestionType(s)
}

// IsKnownQuestionType reports whether s is one of the built-in kinds.
func IsKnownQuestionType(s string) bool {
	switch QuestionType(s) {
	case SingleChoice, MultiSelect, PredictOutput:
		return true
	}
	return false
}

// Question is the full generated record, including the answer key.
// The answer key (Answer, Explanation) never leaves the server until
// evaluation.
//
// Answer is a single label string for SINGLE_CHOICE, a list of label strings
// for MULTI_SELECT, and a free-form string for PREDICT_OUTPUT.
type Question struct {
	ID          string            `json:"id"`
	Type        QuestionType      `json:"question_type"`
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Answer      any               `json:"answer"`
	Explanation string            `json:"explanation"`
	Fallback    bool              `json:"fallback,omitempty"`
}

// EvaluationDetail is the per-answer evaluation record. It is assembled
// during evaluation, handed to the report provider, and returned to the
// client; it is never stored.
type EvaluationDetail struct {
	Question      string `json:"question"`
	UserAnswer    any    `json:"user_answer"`
	CorrectAnswer any    `json:"correct_answer"`
	UserReasoning string `json:"user_reasoning"`
	AIExplanation string `json:"ai_explanation"`
	IsCorrect     bool   `json:"is_correct"`
}
