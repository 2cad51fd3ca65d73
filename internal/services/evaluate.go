package services

import "sort"

// Engine scores answer sets against a catalog. It holds no per-respondent
// state and is safe for concurrent use.
type Engine struct {
	catalog *Catalog
	policy  ScoringPolicy
}

type EngineOption func(*Engine)

func WithPolicy(p ScoringPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// NewEngine builds an engine over c; a nil catalog selects DefaultCatalog.
func NewEngine(c *Catalog, opts ...EngineOption) *Engine {
	if c == nil {
		c = DefaultCatalog()
	}
	e := &Engine{catalog: c, policy: PolicyLenient}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Catalog() *Catalog     { return e.catalog }
func (e *Engine) Policy() ScoringPolicy { return e.policy }

// Score scores a single answer, failing with MissingCatalogEntryError for unknown questions.
func (e *Engine) Score(a Answer) (int, error) {
	q, ok := e.catalog.Question(a.QuestionID)
	if !ok {
		return 0, &MissingCatalogEntryError{QuestionID: a.QuestionID}
	}
	return ScoreAnswer(q, a.Value, e.policy)
}

// Evaluate computes the ScanResult for answers. Later answers replace earlier
// ones for the same question. Unanswered questions score 0 but still count
// towards the maxima. Any scoring error aborts the whole evaluation.
func (e *Engine) Evaluate(answers []Answer) (*ScanResult, error) {
	byID := make(map[int]AnswerValue, len(answers))
	for _, a := range answers {
		if _, ok := e.catalog.Question(a.QuestionID); !ok {
			return nil, &MissingCatalogEntryError{QuestionID: a.QuestionID}
		}
		byID[a.QuestionID] = a.Value
	}
	return e.evaluate(byID)
}

func (e *Engine) evaluate(byID map[int]AnswerValue) (*ScanResult, error) {
	res := &ScanResult{
		CategoryScores: make(map[string]CategoryScore, len(e.catalog.categories)),
		Categories:     e.catalog.Categories(),
		Answers:        make([]ScoredAnswer, 0, len(byID)),
	}
	for _, cat := range e.catalog.categories {
		res.CategoryScores[cat] = CategoryScore{MaxScore: e.catalog.CategoryMax(cat)}
	}
	for _, q := range e.catalog.questions {
		v, answered := byID[q.ID]
		if !answered {
			continue
		}
		score, err := ScoreAnswer(q, v, e.policy)
		if err != nil {
			return nil, err
		}
		cs := res.CategoryScores[q.Category]
		cs.Score += score
		res.CategoryScores[q.Category] = cs
		res.TotalScore += score
		var raw any
		if v != nil {
			raw = v.raw()
		}
		res.Answers = append(res.Answers, ScoredAnswer{QuestionID: q.ID, Value: raw, Score: score})
	}
	for cat, cs := range res.CategoryScores {
		cs.Percentage = percentage(cs.Score, cs.MaxScore)
		res.CategoryScores[cat] = cs
	}
	sort.Slice(res.Answers, func(i, j int) bool { return res.Answers[i].QuestionID < res.Answers[j].QuestionID })
	res.MaxTotalScore = e.catalog.MaxTotal()
	res.TotalPercentage = percentage(res.TotalScore, res.MaxTotalScore)
	res.MaturityLevel = ClassifyMaturity(res.TotalPercentage)
	res.Recommendations = Recommendations(res.TotalPercentage)
	return res, nil
}

// Rescore re-evaluates persisted answers, ignoring any score stored with them.
func (e *Engine) Rescore(saved []ScoredAnswer) (*ScanResult, error) {
	answers := make([]Answer, 0, len(saved))
	for _, sa := range saved {
		a, ok := answerFromScored(sa)
		if !ok {
			if e.policy == PolicyStrict {
				return nil, &InvalidAnswerError{QuestionID: sa.QuestionID, Reason: "unsupported stored value"}
			}
			a = Answer{QuestionID: sa.QuestionID}
		}
		answers = append(answers, a)
	}
	return e.Evaluate(answers)
}
