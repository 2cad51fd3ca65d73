package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScoringPolicy decides what happens to answers that match no option or threshold.
type ScoringPolicy int

const (
	// PolicyLenient scores unusable answers as 0.
	PolicyLenient ScoringPolicy = iota
	// PolicyStrict rejects unusable answers with an InvalidAnswerError.
	PolicyStrict
)

func (p ScoringPolicy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "lenient"
}

// ParseScoringPolicy accepts "strict" or "lenient" (the default for anything else).
func ParseScoringPolicy(s string) ScoringPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return PolicyStrict
	}
	return PolicyLenient
}

// ScoreAnswer returns the score of v for q. q must come from a Catalog so its
// thresholds are already ordered by MinValue descending.
func ScoreAnswer(q Question, v AnswerValue, policy ScoringPolicy) (int, error) {
	score, reason := scoreAnswer(q, v)
	if reason == "" {
		return score, nil
	}
	if policy == PolicyStrict {
		return 0, &InvalidAnswerError{QuestionID: q.ID, Reason: reason}
	}
	return 0, nil
}

func scoreAnswer(q Question, v AnswerValue) (int, string) {
	if v == nil {
		return 0, "no value"
	}
	switch q.Type {
	case AnswerChoice:
		ca, ok := v.(ChoiceAnswer)
		if !ok {
			return 0, "choice question needs an option value"
		}
		for _, o := range q.Options {
			if o.Value == ca.Value {
				return o.Score, ""
			}
		}
		return 0, fmt.Sprintf("unknown option %q", ca.Value)
	case AnswerNumeric:
		var n float64
		switch a := v.(type) {
		case NumericAnswer:
			n = a.Value
		case ChoiceAnswer:
			// numeric inputs sometimes arrive as strings from form fields
			f, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
			if err != nil {
				return 0, fmt.Sprintf("%q is not a number", a.Value)
			}
			n = f
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, "number must be finite"
		}
		return thresholdScore(q.Thresholds, n), ""
	}
	return 0, fmt.Sprintf("unknown answer type %q", q.Type)
}

// thresholdScore walks thresholds in descending MinValue order and stops at the
// first one n reaches. Inputs below every threshold get the lowest threshold's score.
func thresholdScore(ts []Threshold, n float64) int {
	for _, t := range ts {
		if n >= t.MinValue {
			return t.Score
		}
	}
	if len(ts) == 0 {
		return 0
	}
	return ts[len(ts)-1].Score
}

// percentage is round(score/max*100) with round-half-away-from-zero; 0 when max is 0.
func percentage(score, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(max) * 100))
}
