package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Catalog is a validated, immutable set of questions with per-category maxima
// computed once at construction.
type Catalog struct {
	questions     []Question
	index         map[int]int
	categories    []string
	maxByCategory map[string]int
	maxTotal      int
}

// NewCatalog validates qs and returns a catalog in the given order. Thresholds are
// copied and sorted by MinValue descending.
func NewCatalog(qs []Question) (*Catalog, error) {
	if len(qs) == 0 {
		return nil, NewInvalidError("catalog has no questions")
	}
	c := &Catalog{
		questions:     make([]Question, 0, len(qs)),
		index:         make(map[int]int, len(qs)),
		maxByCategory: map[string]int{},
	}
	for _, q := range qs {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
		if _, dup := c.index[q.ID]; dup {
			return nil, NewInvalidError(fmt.Sprintf("duplicate question id %d", q.ID))
		}
		q.Options = append([]Option(nil), q.Options...)
		q.Thresholds = sortedThresholds(q.Thresholds)
		if q.Type == AnswerNumeric {
			if err := checkMonotonic(q); err != nil {
				return nil, err
			}
		}
		c.index[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
		if _, seen := c.maxByCategory[q.Category]; !seen {
			c.categories = append(c.categories, q.Category)
		}
		c.maxByCategory[q.Category] += q.MaxScore()
		c.maxTotal += q.MaxScore()
	}
	return c, nil
}

// MustCatalog is NewCatalog for statically defined catalogs.
func MustCatalog(qs []Question) *Catalog {
	c, err := NewCatalog(qs)
	if err != nil {
		panic(err)
	}
	return c
}

func validateQuestion(q Question) error {
	if q.ID <= 0 {
		return NewInvalidError(fmt.Sprintf("question id must be positive, got %d", q.ID))
	}
	if strings.TrimSpace(q.Category) == "" {
		return NewInvalidError(fmt.Sprintf("question %d: category required", q.ID))
	}
	switch q.Type {
	case AnswerChoice:
		if len(q.Options) == 0 {
			return NewInvalidError(fmt.Sprintf("question %d: choice question without options", q.ID))
		}
		if len(q.Thresholds) > 0 {
			return NewInvalidError(fmt.Sprintf("question %d: choice question with thresholds", q.ID))
		}
		seen := map[string]struct{}{}
		for _, o := range q.Options {
			if o.Score < 0 {
				return NewInvalidError(fmt.Sprintf("question %d: option %q has negative score", q.ID, o.Value))
			}
			if _, dup := seen[o.Value]; dup {
				return NewInvalidError(fmt.Sprintf("question %d: duplicate option value %q", q.ID, o.Value))
			}
			seen[o.Value] = struct{}{}
		}
	case AnswerNumeric:
		if len(q.Thresholds) == 0 {
			return NewInvalidError(fmt.Sprintf("question %d: numeric question without thresholds", q.ID))
		}
		if len(q.Options) > 0 {
			return NewInvalidError(fmt.Sprintf("question %d: numeric question with options", q.ID))
		}
		hasFloor := false
		seen := map[float64]struct{}{}
		for _, t := range q.Thresholds {
			if math.IsNaN(t.MinValue) || math.IsInf(t.MinValue, 0) {
				return NewInvalidError(fmt.Sprintf("question %d: threshold must be finite", q.ID))
			}
			if t.Score < 0 {
				return NewInvalidError(fmt.Sprintf("question %d: threshold %v has negative score", q.ID, t.MinValue))
			}
			if _, dup := seen[t.MinValue]; dup {
				return NewInvalidError(fmt.Sprintf("question %d: duplicate threshold %v", q.ID, t.MinValue))
			}
			seen[t.MinValue] = struct{}{}
			if t.MinValue <= 0 {
				hasFloor = true
			}
		}
		if !hasFloor {
			return NewInvalidError(fmt.Sprintf("question %d: no threshold at or below 0", q.ID))
		}
	default:
		return NewInvalidError(fmt.Sprintf("question %d: unknown answer type %q", q.ID, q.Type))
	}
	return nil
}

func sortedThresholds(ts []Threshold) []Threshold {
	if len(ts) == 0 {
		return nil
	}
	out := append([]Threshold(nil), ts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinValue > out[j].MinValue })
	return out
}

// checkMonotonic expects thresholds sorted descending.
func checkMonotonic(q Question) error {
	for i := 1; i < len(q.Thresholds); i++ {
		hi, lo := q.Thresholds[i-1], q.Thresholds[i]
		if !q.LowerIsBetter && hi.Score < lo.Score {
			return NewInvalidError(fmt.Sprintf("question %d: score decreases between %v and %v", q.ID, lo.MinValue, hi.MinValue))
		}
		if q.LowerIsBetter && hi.Score > lo.Score {
			return NewInvalidError(fmt.Sprintf("question %d: score increases between %v and %v", q.ID, lo.MinValue, hi.MinValue))
		}
	}
	return nil
}

// Questions returns a copy of the questions in catalog order.
func (c *Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

func (c *Catalog) Len() int { return len(c.questions) }

// At returns the question at position i in catalog order.
func (c *Catalog) At(i int) (Question, bool) {
	if i < 0 || i >= len(c.questions) {
		return Question{}, false
	}
	return c.questions[i], true
}

func (c *Catalog) Question(id int) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Categories lists category names in order of first appearance.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

func (c *Catalog) CategoryMax(category string) int { return c.maxByCategory[category] }

func (c *Catalog) MaxTotal() int { return c.maxTotal }
