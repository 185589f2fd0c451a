package dto

import "learnadapt/internal/domain"

// GenerateQuizRequest is the request body for quiz generation
// @Description Parameters for generating a new quiz
type GenerateQuizRequest struct {
	Subject       string   `json:"subject"`
	Topic         string   `json:"topic"`
	NumQuestions  int      `json:"num_questions"`
	Difficulty    string   `json:"difficulty"`
	QuestionTypes []string `json:"question_types,omitempty"`
}

// QuizQuestion is the client-visible projection of a generated question.
// The answer key (answer, explanation) is deliberately absent.
type QuizQuestion struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
}

// GenerateQuizResponse is the response body for quiz generation
type GenerateQuizResponse struct {
	Success bool           `json:"success"`
	QuizID  string         `json:"quiz_id"`
	Quiz    []QuizQuestion `json:"quiz"`
}

// UserAnswer is one submitted answer. Answer is a label string, a label
// list, or free text depending on the question kind.
type UserAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     any    `json:"answer"`
	Reasoning  string `json:"reasoning"`
}

// EvaluateQuizRequest is the request body for quiz evaluation
// @Description A student's submitted answers for the active quiz
type EvaluateQuizRequest struct {
	QuizID    string       `json:"quiz_id"`
	StudentID string       `json:"student_id"`
	Answers   []UserAnswer `json:"answers"`
}

// EvaluateQuizResponse is the response body for quiz evaluation
type EvaluateQuizResponse struct {
	Success bool                      `json:"success"`
	Report  *domain.Report            `json:"report"`
	Details []domain.EvaluationDetail `json:"details"`
}

// ScoreEssayRequest is the request body for qualitative free-text scoring
// @Description A free-text answer to score against a reference solution
type ScoreEssayRequest struct {
	Question        string `json:"question"`
	Subject         string `json:"subject"`
	UserAnswer      string `json:"user_answer"`
	ReferenceAnswer string `json:"reference_answer"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
