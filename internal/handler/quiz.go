package handler

import (
	"learnadapt/internal/dto"
	"learnadapt/internal/logger"
	"learnadapt/internal/service"
	"learnadapt/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// GenerateQuiz godoc
// @Summary Generate a new quiz
// @Description Generates a quiz on the given subject and topic, replacing the active quiz session
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Quiz parameters"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse generate request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "INVALID_REQUEST",
		})
	}

	if errs := h.validator.ValidateGenerateQuizRequest(&req); len(errs) > 0 {
		return errs // Handled by the error middleware
	}

	resp, err := h.service.GenerateQuiz(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// EvaluateQuiz godoc
// @Summary Evaluate a quiz submission
// @Description Grades submitted answers against the active quiz session and returns a performance report
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.EvaluateQuizRequest true "Submitted answers"
// @Success 200 {object} dto.EvaluateQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/evaluate [post]
func (h *QuizHandler) EvaluateQuiz(c *fiber.Ctx) error {
	var req dto.EvaluateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse evaluate request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "INVALID_REQUEST",
		})
	}

	if errs := h.validator.ValidateEvaluateQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.EvaluateQuiz(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ScoreEssay godoc
// @Summary Score a free-text answer
// @Description Scores a free-text answer against a reference solution using similarity, keyword, completeness and structure heuristics
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.ScoreEssayRequest true "Answer to score"
// @Success 200 {object} evaluator.EssayScore
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quiz/score-essay [post]
func (h *QuizHandler) ScoreEssay(c *fiber.Ctx) error {
	var req dto.ScoreEssayRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse essay score request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "INVALID_REQUEST",
		})
	}

	if errs := h.validator.ValidateScoreEssayRequest(&req); len(errs) > 0 {
		return errs
	}

	return c.JSON(h.service.ScoreEssay(&req))
}
