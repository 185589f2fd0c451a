// Package prompt renders the text prompts sent to the LLM providers. The
// wording is configuration data: changing it changes quiz quality, not
// program behavior.
package prompt

import (
	"encoding/json"
	"fmt"

	"learnadapt/internal/domain"
)

const questionPromptTemplate = `You are an expert Computer Science test creator, specializing in questions similar to the JEE Mains exam.
Your task is to generate a single, high-quality problem based on the following specifications.

- Subject: %s
- Topic: %s
- Difficulty: %s
- Question Type: %s

Please provide the output as a single, minified JSON object with NO markdown formatting. The JSON object must contain these exact keys: "question", "options", "answer", "explanation". For PREDICT_OUTPUT questions, the "options" key should contain an empty JSON object.

Use the following structure for your response based on the question type:

%s

Ensure the entire output is a single, valid JSON object.`

var typeInstructions = map[domain.QuestionType]string{
	domain.SingleChoice: `1. "question": A clear, challenging multiple-choice question.
2. "options": A JSON object with four keys: "A", "B", "C", "D".
3. "answer": A string indicating the correct option key (e.g., "C").
4. "explanation": A detailed explanation of why the correct answer is right and why the others are wrong.`,
	domain.MultiSelect: `1. "question": A clear, challenging multiple-select question where one or more options can be correct.
2. "options": A JSON object with four keys: "A", "B", "C", "D".
3. "answer": A JSON array of strings indicating all correct option keys (e.g., ["A", "D"]).
4. "explanation": A detailed explanation for each option, stating why it is correct or incorrect.`,
	domain.PredictOutput: `1. "question": A block of pseudocode or simple code with a specific input. The user's task is to predict the final output.
2. "answer": The exact, final output of the code as a string.
3. "explanation": A step-by-step trace of how the code executes to arrive at the final answer.`,
}

// Question renders the prompt for generating one question of the given kind.
// Unknown kinds fall back to the single-choice instructions.
func Question(subject, topic, difficulty string, kind domain.QuestionType) string {
	instructions, ok := typeInstructions[kind]
	if !ok {
		instructions = typeInstructions[domain.SingleChoice]
	}
	return fmt.Sprintf(questionPromptTemplate, subject, topic, difficulty, kind, instructions)
}

const reportPromptTemplate = `Analyze the following student quiz performance data. For each question, the student provided an answer and their reasoning.

Student Quiz Data:
%s

Create a comprehensive report in a single JSON object. The report must have these exact keys: "overall_summary", "topic_analysis", "reasoning_quality", "action_plan".

- "overall_summary": Provide total score, number correct, and a one-sentence summary of performance.
- "topic_analysis": For each topic covered, identify strengths (where reasoning and answers were good) and weaknesses (where they were poor).
- "reasoning_quality": Provide a general assessment of the student's ability to explain their answers. Note if their reasoning is logical even when the answer is wrong, or if it's weak even when the answer is right.
- "action_plan": Suggest 3 specific, actionable steps the student should take to improve, based directly on their weaknesses.`

// Report renders the prompt for summarizing a student's performance over the
// evaluated answers.
func Report(details []domain.EvaluationDetail) (string, error) {
	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal evaluation details: %w", err)
	}
	return fmt.Sprintf(reportPromptTemplate, string(data)), nil
}
