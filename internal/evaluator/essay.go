package evaluator

import (
	"math"
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

// Weights of the four essay scoring factors.
const (
	similarityWeight   = 0.3
	keywordWeight      = 0.4
	completenessWeight = 0.2
	structureWeight    = 0.1
)

var (
	codeBlockRe   = regexp.MustCompile("(?s)```.*?```")
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	codeMarkerRe  = regexp.MustCompile(`(?i)\b(def|class|function|func|return)\b`)
	listMarkerRe  = regexp.MustCompile(`(?m)^\s*(\d+[.)]|[-*•])\s+`)
)

// EssayScore is the multi-dimensional result of scoring a free-text answer.
type EssayScore struct {
	Score       float64        `json:"score"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Feedback    string         `json:"feedback"`
	Strengths   []string       `json:"strengths"`
	Weaknesses  []string       `json:"weaknesses"`
	Suggestions []string       `json:"suggestions"`
}

// ScoreBreakdown holds the individual factor scores, each on a 0-100 scale.
type ScoreBreakdown struct {
	Similarity   float64 `json:"similarity"`
	Keywords     float64 `json:"keywords"`
	Completeness float64 `json:"completeness"`
	Structure    float64 `json:"structure"`
}

// ScoreEssay grades a free-text answer against a reference solution using
// edit similarity, keyword overlap, completeness and structure heuristics.
// Code-block content is excluded from the text-similarity factors but still
// counts toward structure.
func ScoreEssay(userAnswer, referenceSolution, question, subject string) EssayScore {
	cleanUser := cleanText(userAnswer)
	cleanRef := cleanText(referenceSolution)

	userWords := wordSet(cleanUser)
	refWords := wordSet(cleanRef)
	overlap := intersect(userWords, refWords)

	breakdown := ScoreBreakdown{
		Similarity:   similarityScore(cleanUser, cleanRef),
		Keywords:     keywordScore(overlap, len(refWords), subject),
		Completeness: completenessScore(cleanUser, userAnswer, question),
		Structure:    structureScore(userAnswer),
	}

	score := breakdown.Similarity*similarityWeight +
		breakdown.Keywords*keywordWeight +
		breakdown.Completeness*completenessWeight +
		breakdown.Structure*structureWeight
	score = math.Round(math.Min(score, 100)*10) / 10

	return EssayScore{
		Score:       score,
		Breakdown:   breakdown,
		Feedback:    feedbackFor(score),
		Strengths:   strengthsFor(userAnswer, cleanUser, overlap, score),
		Weaknesses:  weaknessesFor(userAnswer, cleanUser, breakdown),
		Suggestions: suggestionsFor(userAnswer, question, subject, score),
	}
}

// cleanText strips fenced code blocks and punctuation, collapses whitespace
// and lower-cases, so both sides of the comparison are normalized the same
// way.
func cleanText(s string) string {
	s = codeBlockRe.ReplaceAllString(s, " ")
	s = punctuationRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func similarityScore(cleanUser, cleanRef string) float64 {
	if cleanUser == "" || cleanRef == "" {
		return 0
	}
	return levenshtein.Similarity(cleanUser, cleanRef, levenshtein.NewParams()) * 100
}

func keywordScore(overlap map[string]struct{}, refWordCount int, subject string) float64 {
	if refWordCount == 0 {
		return 0
	}
	base := float64(len(overlap)) / float64(refWordCount) * 100

	bonus := 0.0
	if kw, ok := subjectKeywords[normalizeSubject(subject)]; ok {
		for word := range overlap {
			if _, hit := kw[word]; hit {
				bonus += 10
			}
		}
	}
	return math.Min(base+bonus, 100)
}

func completenessScore(cleanUser, rawUser, question string) float64 {
	words := len(strings.Fields(cleanUser))
	if words < 20 {
		return 30
	}

	score := 70.0
	q := strings.ToLower(question)
	if strings.Contains(q, "explain") && words > 50 {
		score += 15
	}
	if strings.Contains(q, "code") && codeMarkerRe.MatchString(rawUser) {
		score += 15
	}
	return math.Min(score, 100)
}

func structureScore(rawUser string) float64 {
	score := 50.0
	if codeBlockRe.MatchString(rawUser) {
		score += 25
	}
	if listMarkerRe.MatchString(rawUser) {
		score += 25
	}
	return math.Min(score, 100)
}

func feedbackFor(score float64) string {
	switch {
	case score >= 90:
		return "Excellent answer. It closely matches the expected solution and demonstrates strong understanding."
	case score >= 75:
		return "Good answer. Most of the key ideas are present, with minor gaps."
	case score >= 60:
		return "Decent answer. The core idea is there, but important details are missing."
	case score >= 40:
		return "The answer needs more depth. Revisit the key concepts and expand your explanation."
	default:
		return "The answer needs significant improvement. Review the material and try to cover the expected points."
	}
}

func strengthsFor(rawUser, cleanUser string, overlap map[string]struct{}, score float64) []string {
	var strengths []string
	if len(strings.Fields(cleanUser)) >= 50 {
		strengths = append(strengths, "Detailed response with substantial coverage.")
	}
	if codeBlockRe.MatchString(rawUser) {
		strengths = append(strengths, "Includes code examples to support the explanation.")
	}
	if len(overlap) >= 3 {
		strengths = append(strengths, "Uses relevant domain terminology.")
	}
	if score >= 75 {
		strengths = append(strengths, "Answer aligns closely with the reference solution.")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Attempted the question with an original answer.")
	}
	return strengths
}

func weaknessesFor(rawUser, cleanUser string, breakdown ScoreBreakdown) []string {
	var weaknesses []string
	if len(strings.Fields(cleanUser)) < 20 {
		weaknesses = append(weaknesses, "Answer is too short to cover the topic.")
	}
	if breakdown.Similarity < 40 {
		weaknesses = append(weaknesses, "Diverges significantly from the reference solution.")
	}
	if breakdown.Keywords < 40 {
		weaknesses = append(weaknesses, "Misses key concepts expected in the answer.")
	}
	if !codeBlockRe.MatchString(rawUser) && !listMarkerRe.MatchString(rawUser) {
		weaknesses = append(weaknesses, "Lacks structure such as lists or code blocks.")
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "No major weaknesses identified.")
	}
	return weaknesses
}

func suggestionsFor(rawUser, question, subject string, score float64) []string {
	var suggestions []string
	if score < 60 {
		suggestions = append(suggestions, "Revisit the underlying concept and rewrite the answer in your own words.")
	}
	if strings.Contains(strings.ToLower(question), "code") && !codeBlockRe.MatchString(rawUser) {
		suggestions = append(suggestions, "Include a short code snippet to demonstrate the idea.")
	}
	if advice, ok := subjectAdvice[normalizeSubject(subject)]; ok {
		suggestions = append(suggestions, advice)
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Keep practicing with similar questions to reinforce the concept.")
	}
	return suggestions
}

func normalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for w := range a {
		if _, ok := b[w]; ok {
			out[w] = struct{}{}
		}
	}
	return out
}
