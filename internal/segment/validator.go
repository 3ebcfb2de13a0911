package segment

import (
	"unicode/utf8"

	"github.com/qaforge/qaforge/pkg/qa"
)

// Validator applies the substance floor and shape invariants to a
// candidate. Rejection is a counted control-flow outcome, never an error.
type Validator struct {
	minQuestionLen int
	minAnswerLen   int
}

// NewValidator creates a validator. Non-positive thresholds select the
// defaults.
func NewValidator(minQuestionLen, minAnswerLen int) *Validator {
	if minQuestionLen <= 0 {
		minQuestionLen = DefaultMinQuestionLen
	}
	if minAnswerLen <= 0 {
		minAnswerLen = DefaultMinAnswerLen
	}
	return &Validator{
		minQuestionLen: minQuestionLen,
		minAnswerLen:   minAnswerLen,
	}
}

// Accept reports whether the candidate meets the record invariants:
// non-empty question and answer that differ, question above the question
// floor, answer above the answer floor.
func (v *Validator) Accept(cand *qa.Candidate) bool {
	if cand == nil {
		return false
	}
	if cand.Question == "" || cand.Answer == "" {
		return false
	}
	if cand.Question == cand.Answer {
		return false
	}
	return utf8.RuneCountInString(cand.Question) > v.minQuestionLen &&
		utf8.RuneCountInString(cand.Answer) > v.minAnswerLen
}
