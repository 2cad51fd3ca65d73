package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// AnswerValue is either a ChoiceAnswer or a NumericAnswer.
type AnswerValue interface {
	answerType() AnswerType
	raw() any
}

// ChoiceAnswer selects an option by its value.
type ChoiceAnswer struct {
	Value string
}

// NumericAnswer carries a respondent-entered number.
type NumericAnswer struct {
	Value float64
}

func (ChoiceAnswer) answerType() AnswerType  { return AnswerChoice }
func (a ChoiceAnswer) raw() any              { return a.Value }
func (NumericAnswer) answerType() AnswerType { return AnswerNumeric }
func (a NumericAnswer) raw() any             { return a.Value }

// Answer binds a value to a catalog question.
type Answer struct {
	QuestionID int
	Value      AnswerValue
}

type answerJSON struct {
	QuestionID int             `json:"question_id"`
	Value      json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value as a JSON string or number depending on its variant.
func (a Answer) MarshalJSON() ([]byte, error) {
	var v any
	if a.Value != nil {
		v = a.Value.raw()
	}
	return json.Marshal(struct {
		QuestionID int `json:"question_id"`
		Value      any `json:"value"`
	}{a.QuestionID, v})
}

// UnmarshalJSON picks the variant from the JSON type: strings become ChoiceAnswer, numbers NumericAnswer.
func (a *Answer) UnmarshalJSON(b []byte) error {
	var in answerJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	v, err := DecodeAnswerValue(in.Value)
	if err != nil {
		return fmt.Errorf("question %d: %w", in.QuestionID, err)
	}
	a.QuestionID = in.QuestionID
	a.Value = v
	return nil
}

// DecodeAnswerValue converts a raw JSON value into an AnswerValue.
func DecodeAnswerValue(raw json.RawMessage) (AnswerValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("answer value required")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return ChoiceAnswer{Value: s}, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.New("answer value must be a string or a number")
	}
	return NumericAnswer{Value: f}, nil
}

// answerFromScored rebuilds an Answer from a persisted ScoredAnswer.
func answerFromScored(sa ScoredAnswer) (Answer, bool) {
	switch v := sa.Value.(type) {
	case string:
		return Answer{QuestionID: sa.QuestionID, Value: ChoiceAnswer{Value: v}}, true
	case float64:
		return Answer{QuestionID: sa.QuestionID, Value: NumericAnswer{Value: v}}, true
	case int:
		return Answer{QuestionID: sa.QuestionID, Value: NumericAnswer{Value: float64(v)}}, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Answer{}, false
		}
		return Answer{QuestionID: sa.QuestionID, Value: NumericAnswer{Value: f}}, true
	}
	return Answer{}, false
}
