package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"learnadapt/internal/config"
	"learnadapt/internal/domain"
	"learnadapt/internal/dto"
	"learnadapt/internal/evaluator"
	"learnadapt/internal/handler"
	"learnadapt/internal/logger"
	"learnadapt/internal/middleware"
	"learnadapt/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	os.Exit(m.Run())
}

// --- Manual Mocks ---

type MockQuizService struct {
	GenerateQuizFunc func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	EvaluateQuizFunc func(ctx context.Context, req *dto.EvaluateQuizRequest) (*dto.EvaluateQuizResponse, error)
	ScoreEssayFunc   func(req *dto.ScoreEssayRequest) evaluator.EssayScore
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, req)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}

func (m *MockQuizService) EvaluateQuiz(ctx context.Context, req *dto.EvaluateQuizRequest) (*dto.EvaluateQuizResponse, error) {
	if m.EvaluateQuizFunc != nil {
		return m.EvaluateQuizFunc(ctx, req)
	}
	panic("MockQuizService.EvaluateQuizFunc not implemented")
}

func (m *MockQuizService) ScoreEssay(req *dto.ScoreEssayRequest) evaluator.EssayScore {
	if m.ScoreEssayFunc != nil {
		return m.ScoreEssayFunc(req)
	}
	panic("MockQuizService.ScoreEssayFunc not implemented")
}

// --- Helpers ---

func newTestApp(service *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewQuizHandler(service, validation.NewValidator(20))
	quiz := app.Group("/api/quiz")
	quiz.Post("/generate", h.GenerateQuiz)
	quiz.Post("/evaluate", h.EvaluateQuiz)
	quiz.Post("/score-essay", h.ScoreEssay)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// --- Generate ---

func TestGenerateQuizHandlerSuccess(t *testing.T) {
	service := &MockQuizService{
		GenerateQuizFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
			return &dto.GenerateQuizResponse{
				Success: true,
				QuizID:  "quiz-123",
				Quiz: []dto.QuizQuestion{
					{ID: "q1", Type: "SINGLE_CHOICE", Question: "?", Options: map[string]string{"A": "x"}},
				},
			}, nil
		},
	}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/api/quiz/generate", dto.GenerateQuizRequest{
		Subject:      "cs",
		Topic:        "stacks",
		NumQuestions: 1,
	})
	assert.Equal(t, fiber.StatusOK, status)

	var resp dto.GenerateQuizResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "quiz-123", resp.QuizID)
	require.Len(t, resp.Quiz, 1)
	assert.Equal(t, "q1", resp.Quiz[0].ID)
}

func TestGenerateQuizHandlerValidation(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	tests := []struct {
		name string
		req  dto.GenerateQuizRequest
	}{
		{"missing subject", dto.GenerateQuizRequest{Topic: "t", NumQuestions: 3}},
		{"missing topic", dto.GenerateQuizRequest{Subject: "s", NumQuestions: 3}},
		{"zero questions", dto.GenerateQuizRequest{Subject: "s", Topic: "t"}},
		{"too many questions", dto.GenerateQuizRequest{Subject: "s", Topic: "t", NumQuestions: 99}},
		{"bad difficulty", dto.GenerateQuizRequest{Subject: "s", Topic: "t", NumQuestions: 3, Difficulty: "impossible"}},
		{"bad question type", dto.GenerateQuizRequest{Subject: "s", Topic: "t", NumQuestions: 3, QuestionTypes: []string{"ESSAY"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/api/quiz/generate", tt.req)
			assert.Equal(t, fiber.StatusBadRequest, status)

			var resp middleware.ValidationErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, string(domain.CodeValidation), resp.Code)
			assert.NotEmpty(t, resp.Errors)
		})
	}
}

// --- Evaluate ---

func TestEvaluateQuizHandlerSuccess(t *testing.T) {
	service := &MockQuizService{
		EvaluateQuizFunc: func(ctx context.Context, req *dto.EvaluateQuizRequest) (*dto.EvaluateQuizResponse, error) {
			return &dto.EvaluateQuizResponse{
				Success: true,
				Report:  &domain.Report{ReasoningQuality: "fine"},
				Details: []domain.EvaluationDetail{{Question: "?", IsCorrect: true}},
			}, nil
		},
	}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/api/quiz/evaluate", dto.EvaluateQuizRequest{
		QuizID:    "quiz-123",
		StudentID: "student-1",
		Answers:   []dto.UserAnswer{{QuestionID: "q1", Answer: "A"}},
	})
	assert.Equal(t, fiber.StatusOK, status)

	var resp dto.EvaluateQuizResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Details, 1)
	assert.True(t, resp.Details[0].IsCorrect)
}

func TestEvaluateQuizHandlerNoSessionIs404(t *testing.T) {
	service := &MockQuizService{
		EvaluateQuizFunc: func(ctx context.Context, req *dto.EvaluateQuizRequest) (*dto.EvaluateQuizResponse, error) {
			return nil, domain.NewSessionNotFoundError()
		},
	}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/api/quiz/evaluate", dto.EvaluateQuizRequest{
		QuizID:    "stale",
		StudentID: "student-1",
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, string(domain.CodeSessionNotFound), resp.Code)
}

func TestEvaluateQuizHandlerValidation(t *testing.T) {
	app := newTestApp(&MockQuizService{})

	status, _ := postJSON(t, app, "/api/quiz/evaluate", dto.EvaluateQuizRequest{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

// --- Essay scoring ---

func TestScoreEssayHandler(t *testing.T) {
	service := &MockQuizService{
		ScoreEssayFunc: func(req *dto.ScoreEssayRequest) evaluator.EssayScore {
			return evaluator.EssayScore{
				Score:       72.5,
				Feedback:    "good",
				Strengths:   []string{"s"},
				Weaknesses:  []string{"w"},
				Suggestions: []string{"g"},
			}
		},
	}
	app := newTestApp(service)

	status, body := postJSON(t, app, "/api/quiz/score-essay", dto.ScoreEssayRequest{
		Question:        "Explain mutexes",
		Subject:         "operating systems",
		UserAnswer:      "A mutex serializes access.",
		ReferenceAnswer: "A mutex provides mutual exclusion.",
	})
	assert.Equal(t, fiber.StatusOK, status)

	var score evaluator.EssayScore
	require.NoError(t, json.Unmarshal(body, &score))
	assert.Equal(t, 72.5, score.Score)

	statusBad, _ := postJSON(t, app, "/api/quiz/score-essay", dto.ScoreEssayRequest{Question: "q"})
	assert.Equal(t, fiber.StatusBadRequest, statusBad)
}
