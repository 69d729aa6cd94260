package quiz

import (
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
)

func validDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

func validType(t string) bool {
	switch t {
	case TypeMultipleChoice, TypeTrueFalse, TypeShortAnswer, TypeEssay:
		return true
	}
	return false
}

func cleanQuestion(q Question) Question {
	q.Text = strings.TrimSpace(q.Text)
	q.Subject = strings.TrimSpace(q.Subject)
	q.Topic = strings.TrimSpace(q.Topic)
	q.Explanation = strings.TrimSpace(q.Explanation)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	if q.Type == TypeMultipleChoice {
		q.CorrectAnswer = strings.ToUpper(q.CorrectAnswer)
	} else {
		q.Options = nil
	}
	if q.Type == TypeTrueFalse && q.CorrectAnswer != "" {
		if v, ok := grading.ParseBool(q.CorrectAnswer); ok {
			q.CorrectAnswer = fmt.Sprint(v)
		}
	}
	return q
}

// ValidateQuestion checks the per-type rules. Multiple-choice needs at least
// two options labelled A–D; an answer key, when given, must name one of them.
func ValidateQuestion(q Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text required", ErrInvalid)
	}
	if !validType(q.Type) {
		return fmt.Errorf("%w: unknown question type %q", ErrInvalid, q.Type)
	}
	if !validDifficulty(q.Difficulty) {
		return fmt.Errorf("%w: difficulty must be easy, medium or hard", ErrInvalid)
	}
	if q.Points < 0 {
		return fmt.Errorf("%w: points must not be negative", ErrInvalid)
	}
	switch q.Type {
	case TypeMultipleChoice:
		filled := 0
		for k, v := range q.Options {
			if !isOptionLetter(k) {
				return fmt.Errorf("%w: option %q is not one of A-D", ErrInvalid, k)
			}
			if strings.TrimSpace(v) != "" {
				filled++
			}
		}
		if filled < 2 {
			return fmt.Errorf("%w: multiple-choice needs at least two options", ErrInvalid)
		}
		if q.CorrectAnswer != "" && strings.TrimSpace(q.Options[q.CorrectAnswer]) == "" {
			return fmt.Errorf("%w: correct answer %q is not a filled option", ErrInvalid, q.CorrectAnswer)
		}
	case TypeTrueFalse:
		if q.CorrectAnswer != "" && q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return fmt.Errorf("%w: correct answer must be true or false", ErrInvalid)
		}
	}
	return nil
}

func isOptionLetter(s string) bool {
	for _, l := range OptionLetters {
		if s == l {
			return true
		}
	}
	return false
}
