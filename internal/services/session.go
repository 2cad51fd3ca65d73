package services

import "errors"

type SessionState string

const (
	SessionInProgress SessionState = "in_progress"
	SessionCompleted  SessionState = "completed"
)

// Session walks one respondent through the catalog. Answers are kept per
// question id, so revisiting a question replaces the earlier answer. A Session
// is not safe for concurrent use.
type Session struct {
	ID      string
	engine  *Engine
	current int
	answers map[int]AnswerValue
	result  *ScanResult
}

// NewSession starts a session at the first question.
func (e *Engine) NewSession(id string) *Session {
	return &Session{ID: id, engine: e, answers: map[int]AnswerValue{}}
}

func (s *Session) State() SessionState {
	if s.result != nil {
		return SessionCompleted
	}
	return SessionInProgress
}

// Index is the position of the current question in catalog order.
func (s *Session) Index() int { return s.current }

// Current returns the question awaiting an answer; false once completed.
func (s *Session) Current() (Question, bool) {
	if s.result != nil {
		return Question{}, false
	}
	return s.engine.catalog.At(s.current)
}

// CurrentAnswer returns the answer already given for the current question, if any.
func (s *Session) CurrentAnswer() (AnswerValue, bool) {
	q, ok := s.Current()
	if !ok {
		return nil, false
	}
	v, ok := s.answers[q.ID]
	return v, ok
}

// Progress is the share of the questionnaire reached, as a percentage.
func (s *Session) Progress() int {
	n := s.engine.catalog.Len()
	if s.result != nil {
		return 100
	}
	return percentage(s.current+1, n)
}

// Answer records v for the current question and moves forward. Answering the
// last question evaluates the session once and completes it.
func (s *Session) Answer(v AnswerValue) (*ScanResult, error) {
	q, ok := s.Current()
	if !ok {
		return nil, ErrSessionCompleted
	}
	if v == nil {
		return nil, &InvalidAnswerError{QuestionID: q.ID, Reason: "no value"}
	}
	if _, err := ScoreAnswer(q, v, s.engine.policy); err != nil {
		return nil, err
	}
	s.answers[q.ID] = v
	if s.current < s.engine.catalog.Len()-1 {
		s.current++
		return nil, nil
	}
	res, err := s.engine.evaluate(s.answers)
	if err != nil {
		return nil, err
	}
	s.result = res
	return res, nil
}

// Back returns to the previous question without scoring.
func (s *Session) Back() error {
	if s.result != nil {
		return ErrSessionCompleted
	}
	if s.current == 0 {
		return errors.New("already at the first question")
	}
	s.current--
	return nil
}

// Result is the ScanResult of a completed session.
func (s *Session) Result() (*ScanResult, bool) {
	return s.result, s.result != nil
}

// Answers returns the recorded answers ordered by catalog position.
func (s *Session) Answers() []Answer {
	out := make([]Answer, 0, len(s.answers))
	for _, q := range s.engine.catalog.questions {
		if v, ok := s.answers[q.ID]; ok {
			out = append(out, Answer{QuestionID: q.ID, Value: v})
		}
	}
	return out
}

// Restart returns a fresh session with the same id and no carried answers.
func (s *Session) Restart() *Session {
	return s.engine.NewSession(s.ID)
}
