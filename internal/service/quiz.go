package service

import (
	"context"
	"math/rand"

	"learnadapt/internal/config"
	"learnadapt/internal/domain"
	"learnadapt/internal/dto"
	"learnadapt/internal/evaluator"
	"learnadapt/internal/logger"
	"learnadapt/internal/prompt"
	"learnadapt/internal/store"
	"learnadapt/internal/util"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	EvaluateQuiz(ctx context.Context, req *dto.EvaluateQuizRequest) (*dto.EvaluateQuizResponse, error)
	ScoreEssay(req *dto.ScoreEssayRequest) evaluator.EssayScore
}

// quizService implements QuizService
type quizService struct {
	store     *store.SessionStore
	generator domain.QuestionGenerator
	reporter  domain.ReportGenerator
	cfg       *config.Config
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	sessionStore *store.SessionStore,
	generator domain.QuestionGenerator,
	reporter domain.ReportGenerator,
	cfg *config.Config,
) QuizService {
	return &quizService{
		store:     sessionStore,
		generator: generator,
		reporter:  reporter,
		cfg:       cfg,
	}
}

// GenerateQuiz replaces the active session and fills it with freshly
// generated questions. The loop is bounded by an attempt budget: when the
// generator keeps failing, the response simply carries fewer questions than
// requested. Fallback records never enter the session.
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	kinds := requestedKinds(req.QuestionTypes)
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	quizID := util.NewULID()
	s.store.Reset(quizID)
	s.generator.ResetHistory()

	budget := req.NumQuestions * s.cfg.Quiz.AttemptsPerQuestion
	questions := make([]dto.QuizQuestion, 0, req.NumQuestions)

	for attempts := 0; len(questions) < req.NumQuestions && attempts < budget; attempts++ {
		kind := kinds[rand.Intn(len(kinds))]
		questionPrompt := prompt.Question(req.Subject, req.Topic, difficulty, kind)

		generated, err := s.generator.GenerateQuestion(ctx, questionPrompt)
		if err != nil {
			logger.Get().Warn("Question generation attempt failed",
				zap.Error(err),
				zap.Int("attempt", attempts))
			continue
		}
		if generated.Fallback {
			// A fallback record means the provider could not produce a real
			// question; it does not count toward the quiz.
			logger.Get().Debug("Discarding fallback question", zap.Int("attempt", attempts))
			continue
		}

		generated.ID = util.NewULID()
		generated.Type = kind
		s.store.Put(generated)

		questions = append(questions, dto.QuizQuestion{
			ID:       generated.ID,
			Type:     string(kind),
			Question: generated.Question,
			Options:  generated.Options,
		})
	}

	if len(questions) < req.NumQuestions {
		logger.Get().Warn("Generation attempt budget exhausted",
			zap.Int("requested", req.NumQuestions),
			zap.Int("generated", len(questions)))
	}

	return &dto.GenerateQuizResponse{
		Success: true,
		QuizID:  quizID,
		Quiz:    questions,
	}, nil
}

// EvaluateQuiz grades a submission against the active session. Answers
// whose question id is not in the session are skipped; an entirely empty
// session is the only error this operation surfaces.
func (s *quizService) EvaluateQuiz(ctx context.Context, req *dto.EvaluateQuizRequest) (*dto.EvaluateQuizResponse, error) {
	if s.store.Empty() {
		return nil, domain.NewSessionNotFoundError()
	}

	details := make([]domain.EvaluationDetail, 0, len(req.Answers))
	for _, ans := range req.Answers {
		question, ok := s.store.Get(ans.QuestionID)
		if !ok {
			logger.Get().Debug("Skipping answer for unknown question id",
				zap.String("question_id", ans.QuestionID))
			continue
		}

		details = append(details, domain.EvaluationDetail{
			Question:      question.Question,
			UserAnswer:    ans.Answer,
			CorrectAnswer: question.Answer,
			UserReasoning: ans.Reasoning,
			AIExplanation: question.Explanation,
			IsCorrect:     evaluator.Compare(ans.Answer, question.Answer, question.Type),
		})
	}

	rpt, err := s.reporter.GenerateReport(ctx, details)
	if err != nil || rpt == nil {
		// The provider normally degrades internally; this is the last line
		// of defense so evaluation never fails on the report path.
		logger.Get().Warn("Report provider returned an error, using fallback report", zap.Error(err))
		rpt = domain.FallbackReport(details)
	}

	return &dto.EvaluateQuizResponse{
		Success: true,
		Report:  rpt,
		Details: details,
	}, nil
}

// ScoreEssay runs the qualitative free-text scorer. Pure computation, no
// providers involved.
func (s *quizService) ScoreEssay(req *dto.ScoreEssayRequest) evaluator.EssayScore {
	return evaluator.ScoreEssay(req.UserAnswer, req.ReferenceAnswer, req.Question, req.Subject)
}

// requestedKinds maps the requested type names to question kinds, falling
// back to the default three when none are given.
func requestedKinds(requested []string) []domain.QuestionType {
	if len(requested) == 0 {
		return domain.DefaultQuestionTypes()
	}
	kinds := make([]domain.QuestionType, 0, len(requested))
	for _, t := range requested {
		kinds = append(kinds, domain.ParseQuestionType(t))
	}
	return kinds
}
