package services

import "time"

// AnswerType selects how a question turns an answer into a score.
type AnswerType string

const (
	AnswerChoice  AnswerType = "choice"
	AnswerNumeric AnswerType = "numeric"
)

// Option is one selectable answer of a choice question.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Score int    `json:"score"`
}

// Threshold awards Score to any numeric input >= MinValue.
type Threshold struct {
	MinValue float64 `json:"min_value"`
	Score    int     `json:"score"`
}

// Question is a single entry of the Quick Scan catalog.
type Question struct {
	ID         int         `json:"id"`
	Text       string      `json:"text"`
	Category   string      `json:"category"`
	Type       AnswerType  `json:"type"`
	Options    []Option    `json:"options,omitempty"`
	Thresholds []Threshold `json:"thresholds,omitempty"`
	// LowerIsBetter marks numeric questions whose score falls as the input grows
	// (e.g. recovery time in minutes).
	LowerIsBetter bool `json:"lower_is_better,omitempty"`
}

// MaxScore is the best score attainable for the question.
func (q Question) MaxScore() int {
	best := 0
	switch q.Type {
	case AnswerChoice:
		for _, o := range q.Options {
			if o.Score > best {
				best = o.Score
			}
		}
	case AnswerNumeric:
		for _, t := range q.Thresholds {
			if t.Score > best {
				best = t.Score
			}
		}
	}
	return best
}

// CategoryScore is the sub-score of one category.
type CategoryScore struct {
	Score      int `json:"score"`
	MaxScore   int `json:"max_score"`
	Percentage int `json:"percentage"`
}

// MaturityLevel is one of the five ordinal maturity tiers.
type MaturityLevel struct {
	Level int    `json:"level"`
	Label string `json:"label"`
}

// ScoredAnswer is an answer together with the score the engine assigned to it.
type ScoredAnswer struct {
	QuestionID int `json:"question_id"`
	Value      any `json:"value"`
	Score      int `json:"score"`
}

// ScanResult is the derived outcome of one respondent's answers.
type ScanResult struct {
	TotalScore      int                      `json:"total_score"`
	MaxTotalScore   int                      `json:"max_total_score"`
	TotalPercentage int                      `json:"total_percentage"`
	MaturityLevel   MaturityLevel            `json:"maturity_level"`
	CategoryScores  map[string]CategoryScore `json:"category_scores"`
	Categories      []string                 `json:"categories"`
	Recommendations []string                 `json:"recommendations"`
	Answers         []ScoredAnswer           `json:"answers"`
}

// StoredScan is a saved Quick Scan submission.
type StoredScan struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Company         string     `json:"company,omitempty"`
	SendCopyToAdmin bool       `json:"send_copy_to_admin"`
	Result          ScanResult `json:"result"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Admin is a back-office account.
type Admin struct {
	ID           string
	Email        string
	Name         string
	PassHash     []byte
	Active       bool
	FailedLogins int
	LockoutUntil time.Time
	LastLogin    time.Time
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}
