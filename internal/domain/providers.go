package domain

import "context"

// QuestionGenerator is the boundary around the question-generation LLM.
// Implementations never propagate model or parse failures: they return a
// canned record with Fallback set instead, and the orchestrator decides
// whether to keep or discard it. An error is only returned for failures that
// happen before the fallback policy can apply (nil context, client misuse).
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, prompt string) (*Question, error)

	// ResetHistory clears the duplicate-suppression state. Called once at
	// the start of each generation session.
	ResetHistory()
}

// ReportGenerator is the boundary around the report LLM. Implementations
// degrade to a deterministic fallback report on any failure; the returned
// report is never nil when the error is nil.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, details []EvaluationDetail) (*Report, error)
}
