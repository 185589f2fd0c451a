// Package evaluator holds the rule-based answer evaluation engine: a
// per-kind answer comparator and a multi-factor essay scorer. Everything in
// this package is pure and deterministic; the LLM adapters live elsewhere.
package evaluator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"learnadapt/internal/domain"
)

// numericTolerance is the maximum absolute difference under which two
// numeric PREDICT_OUTPUT answers are considered equal.
const numericTolerance = 0.001

var nonNumericRe = regexp.MustCompile(`[^\d.-]`)

// Compare decides whether a submitted answer matches the reference answer
// for the given question kind. It never panics and never returns an error:
// anything that goes wrong during comparison counts as "no match".
func Compare(userAnswer, referenceAnswer any, kind domain.QuestionType) (result bool) {
	if userAnswer == nil {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()

	switch kind {
	case domain.SingleChoice:
		return compareSingleChoice(userAnswer, referenceAnswer)
	case domain.MultiSelect:
		return compareMultiSelect(userAnswer, referenceAnswer)
	case domain.PredictOutput:
		return compareOutput(userAnswer, referenceAnswer)
	default:
		// Safe default for kinds this build does not know about.
		return strings.EqualFold(
			strings.TrimSpace(stringify(userAnswer)),
			strings.TrimSpace(stringify(referenceAnswer)),
		)
	}
}

// compareSingleChoice matches option labels, ignoring case and surrounding
// whitespace.
func compareSingleChoice(user, ref any) bool {
	return normalizeLabel(stringify(user)) == normalizeLabel(stringify(ref))
}

// compareMultiSelect compares label lists as sets: order-independent, with
// duplicates collapsed. A side that is not a list is a mismatch, not an
// error.
func compareMultiSelect(user, ref any) bool {
	userSet, ok := labelSet(user)
	if !ok {
		return false
	}
	refSet, ok := labelSet(ref)
	if !ok {
		return false
	}
	if len(userSet) != len(refSet) {
		return false
	}
	for label := range refSet {
		if _, found := userSet[label]; !found {
			return false
		}
	}
	return true
}

// compareOutput matches free-text/numeric program output with increasing
// leniency: exact, case-insensitive, whitespace-collapsed, then numeric
// within tolerance.
func compareOutput(user, ref any) bool {
	userStr := strings.TrimSpace(stringify(user))
	refStr := strings.TrimSpace(stringify(ref))

	if userStr == refStr {
		return true
	}
	if strings.EqualFold(userStr, refStr) {
		return true
	}
	if strings.EqualFold(collapseWhitespace(userStr), collapseWhitespace(refStr)) {
		return true
	}

	userNum, okUser := extractNumber(userStr)
	refNum, okRef := extractNumber(refStr)
	if okUser && okRef {
		return math.Abs(userNum-refNum) < numericTolerance
	}

	return false
}

// labelSet normalizes a label sequence into a set. Accepts []string and
// []any (the shape JSON decoding produces); anything else reports false.
func labelSet(v any) (map[string]struct{}, bool) {
	set := make(map[string]struct{})
	switch items := v.(type) {
	case []string:
		for _, item := range items {
			set[normalizeLabel(item)] = struct{}{}
		}
	case []any:
		for _, item := range items {
			set[normalizeLabel(stringify(item))] = struct{}{}
		}
	default:
		return nil, false
	}
	return set, true
}

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractNumber strips everything except digits, '.' and '-' and parses the
// residue as a float. An empty residue or a parse failure reports false.
func extractNumber(s string) (float64, bool) {
	residue := nonNumericRe.ReplaceAllString(s, "")
	if residue == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(residue, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
