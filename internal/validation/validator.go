package validation

import (
	"strings"

	"learnadapt/internal/domain"
	"learnadapt/internal/dto"
)

// Validator provides request validation functionality
type Validator struct {
	maxQuestions int
}

// NewValidator creates a new validator instance. maxQuestions caps
// num_questions in a generation request.
func NewValidator(maxQuestions int) *Validator {
	if maxQuestions <= 0 {
		maxQuestions = 20
	}
	return &Validator{maxQuestions: maxQuestions}
}

var validDifficulties = map[string]struct{}{
	"easy":   {},
	"medium": {},
	"hard":   {},
}

// ValidateGenerateQuizRequest validates the quiz generation request
func (v *Validator) ValidateGenerateQuizRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Subject) == "" {
		errors = append(errors, domain.NewMissingFieldError("subject"))
	}
	if strings.TrimSpace(req.Topic) == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	}
	if req.NumQuestions < 1 || req.NumQuestions > v.maxQuestions {
		errors = append(errors, domain.NewOutOfRangeError("num_questions", req.NumQuestions, 1, v.maxQuestions))
	}
	if req.Difficulty != "" {
		if _, ok := validDifficulties[strings.ToLower(req.Difficulty)]; !ok {
			errors = append(errors, domain.NewInvalidFormatError("difficulty", req.Difficulty))
		}
	}
	for _, t := range req.QuestionTypes {
		if !domain.IsKnownQuestionType(t) {
			errors = append(errors, domain.NewInvalidFormatError("question_types", t))
		}
	}

	return errors
}

// ValidateEvaluateQuizRequest validates the quiz evaluation request.
// Individual answers are deliberately not validated here: unknown question
// ids are skipped during evaluation, not rejected.
func (v *Validator) ValidateEvaluateQuizRequest(req *dto.EvaluateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.QuizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	}
	if strings.TrimSpace(req.StudentID) == "" {
		errors = append(errors, domain.NewMissingFieldError("student_id"))
	}

	return errors
}

// ValidateScoreEssayRequest validates the essay scoring request
func (v *Validator) ValidateScoreEssayRequest(req *dto.ScoreEssayRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.UserAnswer) == "" {
		errors = append(errors, domain.NewMissingFieldError("user_answer"))
	}
	if strings.TrimSpace(req.ReferenceAnswer) == "" {
		errors = append(errors, domain.NewMissingFieldError("reference_answer"))
	}

	return errors
}
