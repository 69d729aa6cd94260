package grading

import (
	"context"
	"errors"
	"strings"
)

// Question types, as stored on quiz questions.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeTrueFalse      = "true-false"
	TypeShortAnswer    = "short-answer"
	TypeEssay          = "essay"
)

// Q is a minimal view of a question needed for grading.
type Q struct {
	Type          string
	Points        float64
	CorrectAnswer string
}

// Result is the outcome of grading a single answer.
type Result struct {
	AutoPoints  float64  // points awarded automatically
	MaxPoints   float64  // the question's max points
	NeedsManual bool     // true if teacher review is required
	Feedback    []string // optional notes
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response string) (Result, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{MaxPoints: q.Points, NeedsManual: true, Feedback: []string{"no strategy available"}}, nil
	}
	return s.Grade(ctx, q, response)
}

// Engine options

type Option func(*config)

type config struct {
	MaxEditDistance int // for short-answer fuzzy
}

func WithMaxEditDistance(n int) Option { return func(c *config) { c.MaxEditDistance = n } }

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{MaxEditDistance: 1}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[string]Strategy{
			TypeMultipleChoice: choiceStrategy{},
			TypeTrueFalse:      trueFalseStrategy{},
			TypeShortAnswer:    shortAnswerStrategy{maxEdit: cfg.MaxEditDistance},
			TypeEssay:          essayStrategy{},
		},
	}
}

// --- Strategies ---

type choiceStrategy struct{}

func (choiceStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if q.CorrectAnswer == "" {
		res.NeedsManual = true
		res.Feedback = append(res.Feedback, "no answer key")
		return res, nil
	}
	if strings.EqualFold(strings.TrimSpace(response), strings.TrimSpace(q.CorrectAnswer)) {
		res.AutoPoints = q.Points
	}
	return res, nil
}

type trueFalseStrategy struct{}

func (trueFalseStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	want, ok := ParseBool(q.CorrectAnswer)
	if !ok {
		res.NeedsManual = true
		res.Feedback = append(res.Feedback, "no answer key")
		return res, nil
	}
	got, ok := ParseBool(response)
	if !ok {
		return res, errors.New("response must be true or false")
	}
	if got == want {
		res.AutoPoints = q.Points
	}
	return res, nil
}

type shortAnswerStrategy struct{ maxEdit int }

func (s shortAnswerStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	key := normalize(q.CorrectAnswer)
	if key == "" {
		res.NeedsManual = true
		res.Feedback = append(res.Feedback, "no answer key")
		return res, nil
	}
	got := normalize(response)
	switch {
	case got == key:
		res.AutoPoints = q.Points
	case s.maxEdit > 0 && levenshtein(key, got) <= s.maxEdit:
		res.AutoPoints = q.Points * 0.5
		res.Feedback = append(res.Feedback, "close match (fuzzy)")
	}
	return res, nil
}

type essayStrategy struct{}

func (essayStrategy) Grade(_ context.Context, q Q, _ string) (Result, error) {
	return Result{MaxPoints: q.Points, NeedsManual: true, Feedback: []string{"manual grading required"}}, nil
}

// ParseBool accepts the spellings students and teachers actually type.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}
