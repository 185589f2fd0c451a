// Package report adapts an OpenAI-compatible chat endpoint (Groq in
// production) into the report-generation boundary. Every failure on this
// path degrades to the deterministic fallback report; the caller never sees
// an error.
package report

import (
	"context"
	"encoding/json"
	"strings"

	"learnadapt/internal/domain"
	"learnadapt/internal/prompt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatClient is the slice of the OpenAI client the generator needs; tests
// substitute a stub.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GroqReportGenerator implements domain.ReportGenerator against Groq's
// OpenAI-compatible chat completion API.
type GroqReportGenerator struct {
	client      chatClient
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewGroqReportGenerator builds a report generator talking to baseURL with
// the given model. An empty baseURL keeps the client's default (OpenAI).
func NewGroqReportGenerator(apiKey, baseURL, model string, logger *zap.Logger) *GroqReportGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqReportGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.6,
		maxTokens:   2000,
		logger:      logger,
	}
}

var _ domain.ReportGenerator = (*GroqReportGenerator)(nil)

// GenerateReport asks the model for a narrative performance report over the
// evaluated answers. Any failure (prompt rendering, transport, malformed
// JSON) substitutes the deterministic count-based fallback report.
func (g *GroqReportGenerator) GenerateReport(ctx context.Context, details []domain.EvaluationDetail) (*domain.Report, error) {
	reportPrompt, err := prompt.Report(details)
	if err != nil {
		g.logger.Warn("Failed to render report prompt, substituting fallback report", zap.Error(err))
		return domain.FallbackReport(details), nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: reportPrompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.logger.Warn("Report generation call failed, substituting fallback report", zap.Error(err))
		return domain.FallbackReport(details), nil
	}
	if len(resp.Choices) == 0 {
		g.logger.Warn("Report model returned no choices, substituting fallback report")
		return domain.FallbackReport(details), nil
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		g.logger.Warn("No JSON object found in report response", zap.String("content", content))
		return domain.FallbackReport(details), nil
	}

	var rpt domain.Report
	if err := json.Unmarshal([]byte(content[jsonStart:jsonEnd+1]), &rpt); err != nil {
		g.logger.Warn("Failed to unmarshal report response, substituting fallback report",
			zap.Error(err),
			zap.String("content", content))
		return domain.FallbackReport(details), nil
	}

	return &rpt, nil
}
