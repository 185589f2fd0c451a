package domain

import "math"

// Report is the narrative performance report returned after evaluation.
// The fields mirror the JSON object the report model is asked to produce;
// their values are passed through as-is, so the concrete shapes are only
// fixed on the deterministic fallback path.
type Report struct {
	OverallSummary   any `json:"overall_summary"`
	TopicAnalysis    any `json:"topic_analysis"`
	ReasoningQuality any `json:"reasoning_quality"`
	ActionPlan       any `json:"action_plan"`
}

// ReportSummary is the overall_summary shape of the fallback report.
type ReportSummary struct {
	TotalScore      float64 `json:"total_score"`
	ProblemsCorrect int     `json:"problems_correct"`
	TotalProblems   int     `json:"total_problems"`
	Summary         string  `json:"summary"`
}

// TopicAnalysis is the topic_analysis shape of the fallback report.
type TopicAnalysis struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// FallbackReport builds a deterministic report from the evaluation details
// alone. It is substituted whenever the report provider fails and must never
// itself fail.
func FallbackReport(details []EvaluationDetail) *Report {
	total := len(details)
	correct := 0
	for _, d := range details {
		if d.IsCorrect {
			correct++
		}
	}

	score := 0.0
	if total > 0 {
		score = math.Round(float64(correct)/float64(total)*1000) / 10
	}

	return &Report{
		OverallSummary: ReportSummary{
			TotalScore:      score,
			ProblemsCorrect: correct,
			TotalProblems:   total,
			Summary:         "The student shows a foundational understanding but needs to work on accuracy and detailed reasoning.",
		},
		TopicAnalysis: TopicAnalysis{
			Strengths:  []string{"Good attempt on foundational topics."},
			Weaknesses: []string{"Struggled with multi-step problems and edge cases."},
		},
		ReasoningQuality: "Reasoning is often brief. It's important to explain the 'why' behind each step.",
		ActionPlan: []string{
			"Review the fundamentals of weaker topics.",
			"Practice writing out the step-by-step reasoning for every problem, even simple ones.",
			"Focus on identifying edge cases in problems.",
		},
	}
}
