package service

import (
	"context"
	"os"
	"testing"

	"learnadapt/internal/config"
	"learnadapt/internal/domain"
	"learnadapt/internal/dto"
	"learnadapt/internal/logger"
	"learnadapt/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestMain initializes the logger for all tests in this package
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestion(ctx context.Context, prompt string) (*domain.Question, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionGenerator) ResetHistory() {
	m.Called()
}

type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) GenerateReport(ctx context.Context, details []domain.EvaluationDetail) (*domain.Report, error) {
	args := m.Called(ctx, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Quiz: config.QuizConfig{
			AttemptsPerQuestion: 3,
			MaxQuestions:        20,
		},
	}
}

func generatedQuestion(text string) *domain.Question {
	return &domain.Question{
		Question:    text,
		Options:     map[string]string{"A": "yes", "B": "no"},
		Answer:      "A",
		Explanation: "because",
	}
}

func fallbackQuestion() *domain.Question {
	q := generatedQuestion("fallback")
	q.Fallback = true
	return q
}

func newService(gen *MockQuestionGenerator, rep *MockReportGenerator) (QuizService, *store.SessionStore) {
	sessionStore := store.NewSessionStore()
	return NewQuizService(sessionStore, gen, rep, testConfig()), sessionStore
}

// --- Generation ---

func TestGenerateQuizCollectsRequestedCount(t *testing.T) {
	gen := new(MockQuestionGenerator)
	gen.On("ResetHistory").Return()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(generatedQuestion("q one"), nil).Once()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(generatedQuestion("q two"), nil).Once()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(generatedQuestion("q three"), nil).Once()

	svc, sessionStore := newService(gen, new(MockReportGenerator))

	resp, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Subject:      "computer science",
		Topic:        "data structures",
		NumQuestions: 3,
		Difficulty:   "medium",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.QuizID)
	assert.Len(t, resp.Quiz, 3)
	assert.Equal(t, 3, sessionStore.Size())
	assert.Equal(t, resp.QuizID, sessionStore.QuizID())

	// Each client-visible question carries its id, kind, text and options;
	// the answer key stays server-side.
	for _, q := range resp.Quiz {
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Type)
		assert.NotEmpty(t, q.Question)

		stored, ok := sessionStore.Get(q.ID)
		require.True(t, ok)
		assert.Equal(t, "A", stored.Answer)
		assert.Equal(t, "because", stored.Explanation)
	}

	gen.AssertNumberOfCalls(t, "GenerateQuestion", 3)
	gen.AssertCalled(t, "ResetHistory")
}

func TestGenerateQuizAllFallbacksYieldsEmptyQuiz(t *testing.T) {
	gen := new(MockQuestionGenerator)
	gen.On("ResetHistory").Return()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(fallbackQuestion(), nil)

	svc, sessionStore := newService(gen, new(MockReportGenerator))

	// 5 requested questions with a 3x multiplier: exactly 15 attempts, then
	// the loop gives up and returns an empty quiz rather than blocking.
	resp, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Subject:      "cs",
		Topic:        "anything",
		NumQuestions: 5,
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Quiz)
	assert.Equal(t, 0, sessionStore.Size())
	gen.AssertNumberOfCalls(t, "GenerateQuestion", 15)
}

func TestGenerateQuizGeneratorErrorsCountAgainstBudget(t *testing.T) {
	gen := new(MockQuestionGenerator)
	gen.On("ResetHistory").Return()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	svc, _ := newService(gen, new(MockReportGenerator))

	resp, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Subject:      "cs",
		Topic:        "anything",
		NumQuestions: 2,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Quiz)
	gen.AssertNumberOfCalls(t, "GenerateQuestion", 6)
}

func TestGenerateQuizHonorsRequestedTypes(t *testing.T) {
	gen := new(MockQuestionGenerator)
	gen.On("ResetHistory").Return()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(generatedQuestion("typed"), nil).Once()

	svc, sessionStore := newService(gen, new(MockReportGenerator))

	resp, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Subject:       "cs",
		Topic:         "os",
		NumQuestions:  1,
		QuestionTypes: []string{"PREDICT_OUTPUT"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Quiz, 1)

	assert.Equal(t, "PREDICT_OUTPUT", resp.Quiz[0].Type)
	stored, _ := sessionStore.Get(resp.Quiz[0].ID)
	assert.Equal(t, domain.PredictOutput, stored.Type)
}

func TestGenerateQuizReplacesPreviousSession(t *testing.T) {
	gen := new(MockQuestionGenerator)
	gen.On("ResetHistory").Return()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(generatedQuestion("first"), nil).Once()
	gen.On("GenerateQuestion", mock.Anything, mock.Anything).Return(generatedQuestion("second"), nil).Once()

	svc, sessionStore := newService(gen, new(MockReportGenerator))

	first, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Subject: "cs", Topic: "t", NumQuestions: 1,
	})
	require.NoError(t, err)
	oldID := first.Quiz[0].ID

	second, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Subject: "cs", Topic: "t", NumQuestions: 1,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.QuizID, second.QuizID)
	_, ok := sessionStore.Get(oldID)
	assert.False(t, ok, "old session's question ids must be invalidated")
	assert.Equal(t, 1, sessionStore.Size())
}

// --- Evaluation ---

func storedSingleChoice(sessionStore *store.SessionStore, id, answer string) {
	sessionStore.Put(&domain.Question{
		ID:          id,
		Type:        domain.SingleChoice,
		Question:    "question " + id,
		Options:     map[string]string{"A": "x", "B": "y"},
		Answer:      answer,
		Explanation: "explanation " + id,
	})
}

func TestEvaluateQuizEmptyStoreIsNotFound(t *testing.T) {
	svc, _ := newService(new(MockQuestionGenerator), new(MockReportGenerator))

	_, err := svc.EvaluateQuiz(context.Background(), &dto.EvaluateQuizRequest{
		QuizID:    "whatever",
		StudentID: "s1",
		Answers:   []dto.UserAnswer{{QuestionID: "q1", Answer: "A"}},
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeSessionNotFound, domainErr.Code)
}

func TestEvaluateQuizSkipsUnknownQuestionIDs(t *testing.T) {
	rep := new(MockReportGenerator)
	rep.On("GenerateReport", mock.Anything, mock.Anything).Return(&domain.Report{ReasoningQuality: "ok"}, nil)

	svc, sessionStore := newService(new(MockQuestionGenerator), rep)
	sessionStore.Reset("quiz-1")
	storedSingleChoice(sessionStore, "q1", "A")

	resp, err := svc.EvaluateQuiz(context.Background(), &dto.EvaluateQuizRequest{
		QuizID:    "quiz-1",
		StudentID: "s1",
		Answers: []dto.UserAnswer{
			{QuestionID: "q1", Answer: "a", Reasoning: "sure"},
			{QuestionID: "ghost", Answer: "B", Reasoning: "stale id"},
		},
	})
	require.NoError(t, err)

	// The unknown id is silently dropped; the rest is still evaluated and
	// reported on.
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "question q1", resp.Details[0].Question)
	assert.True(t, resp.Details[0].IsCorrect)
	assert.Equal(t, "ok", resp.Report.ReasoningQuality)
}

func TestEvaluateQuizVerdictsAndDetails(t *testing.T) {
	rep := new(MockReportGenerator)
	rep.On("GenerateReport", mock.Anything, mock.Anything).Return(&domain.Report{}, nil)

	svc, sessionStore := newService(new(MockQuestionGenerator), rep)
	sessionStore.Reset("quiz-1")
	storedSingleChoice(sessionStore, "right", "A")
	storedSingleChoice(sessionStore, "wrong", "B")

	resp, err := svc.EvaluateQuiz(context.Background(), &dto.EvaluateQuizRequest{
		QuizID:    "quiz-1",
		StudentID: "s1",
		Answers: []dto.UserAnswer{
			{QuestionID: "right", Answer: "A", Reasoning: "confident"},
			{QuestionID: "wrong", Answer: "A", Reasoning: "guessing"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Details, 2)

	assert.True(t, resp.Details[0].IsCorrect)
	assert.Equal(t, "confident", resp.Details[0].UserReasoning)
	assert.Equal(t, "explanation right", resp.Details[0].AIExplanation)

	assert.False(t, resp.Details[1].IsCorrect)
	assert.Equal(t, "B", resp.Details[1].CorrectAnswer)
}

func TestEvaluateQuizReportFailureFallsBack(t *testing.T) {
	rep := new(MockReportGenerator)
	rep.On("GenerateReport", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	svc, sessionStore := newService(new(MockQuestionGenerator), rep)
	sessionStore.Reset("quiz-1")
	storedSingleChoice(sessionStore, "q1", "A")

	resp, err := svc.EvaluateQuiz(context.Background(), &dto.EvaluateQuizRequest{
		QuizID:    "quiz-1",
		StudentID: "s1",
		Answers:   []dto.UserAnswer{{QuestionID: "q1", Answer: "A"}},
	})
	require.NoError(t, err, "report failures must never surface to the caller")
	require.NotNil(t, resp.Report)

	summary, ok := resp.Report.OverallSummary.(domain.ReportSummary)
	require.True(t, ok)
	assert.Equal(t, 1, summary.TotalProblems)
	assert.Equal(t, 1, summary.ProblemsCorrect)
}

// --- Essay scoring ---

func TestScoreEssayDelegatesToEvaluator(t *testing.T) {
	svc, _ := newService(new(MockQuestionGenerator), new(MockReportGenerator))

	result := svc.ScoreEssay(&dto.ScoreEssayRequest{
		Question:        "Explain deadlock",
		Subject:         "operating systems",
		UserAnswer:      "A deadlock happens when processes wait on each other's locks forever.",
		ReferenceAnswer: "A deadlock is a cycle of processes each waiting for a resource held by the next.",
	})

	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 100.0)
	assert.NotEmpty(t, result.Feedback)
}
