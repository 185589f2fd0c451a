// Package quizgen adapts a text-generation LLM into the question-generation
// boundary: prompt in, structured question record out, with a canned
// fallback record whenever the model fails or returns unusable output.
package quizgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"learnadapt/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// maxRegenerations bounds how often a duplicate question is regenerated
// before it is returned anyway.
const maxRegenerations = 3

// hashPrefixLen is how much of the normalized question text feeds the
// duplicate-detection hash.
const hashPrefixLen = 200

// GeminiQuestionGenerator implements domain.QuestionGenerator on top of a
// langchaingo model (Gemini in production, a stub in tests). It keeps a
// per-session history of question-content hashes to suppress duplicates.
type GeminiQuestionGenerator struct {
	llm         llms.Model
	logger      *zap.Logger
	temperature float64

	mu   sync.Mutex
	seen map[string]struct{}
}

// generatedPayload is the JSON object the model is instructed to return.
type generatedPayload struct {
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Answer      any               `json:"answer"`
	Explanation string            `json:"explanation"`
}

// NewGeminiQuestionGenerator creates a generator around the given model.
func NewGeminiQuestionGenerator(llm llms.Model, temperature float64, logger *zap.Logger) *GeminiQuestionGenerator {
	return &GeminiQuestionGenerator{
		llm:         llm,
		logger:      logger,
		temperature: temperature,
		seen:        make(map[string]struct{}),
	}
}

var _ domain.QuestionGenerator = (*GeminiQuestionGenerator)(nil)

// GenerateQuestion asks the model for one question and parses the response.
// Model failures and malformed output are converted into a fallback record,
// never an error. Duplicate questions (by content hash) are regenerated up
// to maxRegenerations times; after that the duplicate is returned anyway.
func (g *GeminiQuestionGenerator) GenerateQuestion(ctx context.Context, prompt string) (*domain.Question, error) {
	var question *domain.Question

	for attempt := 0; attempt <= maxRegenerations; attempt++ {
		raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
		if err != nil {
			g.logger.Warn("Question generation call failed, substituting fallback",
				zap.Error(err),
				zap.Int("attempt", attempt))
			return fallbackQuestion(err.Error()), nil
		}

		question = g.parseResponse(raw)
		if question.Fallback {
			return question, nil
		}

		if g.recordIfNew(question.Question) {
			return question, nil
		}
		g.logger.Debug("Duplicate question generated, retrying",
			zap.Int("attempt", attempt),
			zap.String("question", question.Question))
	}

	// Regeneration budget exhausted: hand the duplicate back rather than
	// fail the whole generation loop.
	g.logger.Warn("Duplicate suppression gave up, returning duplicate question",
		zap.String("question", question.Question))
	return question, nil
}

// ResetHistory clears the duplicate-detection state for a new session.
func (g *GeminiQuestionGenerator) ResetHistory() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen = make(map[string]struct{})
}

// parseResponse extracts the JSON object from the raw model text. Models
// routinely wrap JSON in prose or markdown fences, so everything outside the
// first '{' and the last '}' is discarded before unmarshalling.
func (g *GeminiQuestionGenerator) parseResponse(raw string) *domain.Question {
	cleaned := strings.TrimSpace(raw)

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		g.logger.Warn("No JSON object found in model response", zap.String("response", cleaned))
		return fallbackQuestion("No JSON in response")
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &payload); err != nil {
		g.logger.Warn("Failed to unmarshal model response",
			zap.Error(err),
			zap.String("json", cleaned[jsonStart:jsonEnd+1]))
		return fallbackQuestion("Invalid JSON format")
	}

	if payload.Question == "" || payload.Answer == nil {
		g.logger.Warn("Model response is missing required fields", zap.Any("payload", payload))
		return fallbackQuestion("Incomplete question data")
	}

	options := payload.Options
	if options == nil {
		options = map[string]string{}
	}

	return &domain.Question{
		Question:    payload.Question,
		Options:     options,
		Answer:      payload.Answer,
		Explanation: payload.Explanation,
	}
}

// recordIfNew hashes the question text and records it. Returns false when
// the hash was already present for this session.
func (g *GeminiQuestionGenerator) recordIfNew(questionText string) bool {
	hash := contentHash(questionText)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.seen[hash]; dup {
		return false
	}
	g.seen[hash] = struct{}{}
	return true
}

// contentHash builds the duplicate-detection key: case-folded, stripped of
// non-alphanumerics, hashed over a fixed-length prefix so trailing
// variations do not defeat detection.
func contentHash(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if len(normalized) > hashPrefixLen {
		normalized = normalized[:hashPrefixLen]
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// fallbackQuestion is the canned record substituted when generation fails.
// The orchestrator recognizes it by the Fallback flag and discards it.
func fallbackQuestion(reason string) *domain.Question {
	return &domain.Question{
		Question: "What is the basic concept in computer science?",
		Options: map[string]string{
			"A": "Data Structure",
			"B": "Algorithm",
			"C": "Programming",
			"D": "All of the above",
		},
		Answer:      "D",
		Explanation: fmt.Sprintf("Fallback question used due to error: %s", reason),
		Fallback:    true,
	}
}
