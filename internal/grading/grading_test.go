package grading

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "paris", normalize("  Paris. "))
	assert.Equal(t, "new york city", normalize("New   York,\tCity!"))
	assert.Equal(t, "", normalize(" ... "))
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "ab", 2},
		{"kitten", "sitting", 3},
		{"paris", "pariss", 1},
		{"héllo", "hello", 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, levenshtein(c.a, c.b), "%q vs %q", c.a, c.b)
	}
}

func TestGradeByType(t *testing.T) {
	ctx := context.Background()
	g := NewDefaultGrader()

	cases := []struct {
		name       string
		q          Q
		response   string
		wantPoints float64
		wantManual bool
	}{
		{"choice correct", Q{Type: TypeMultipleChoice, Points: 2, CorrectAnswer: "B"}, "b", 2, false},
		{"choice wrong", Q{Type: TypeMultipleChoice, Points: 2, CorrectAnswer: "B"}, "C", 0, false},
		{"choice without key", Q{Type: TypeMultipleChoice, Points: 2}, "C", 0, true},
		{"true-false correct", Q{Type: TypeTrueFalse, Points: 1, CorrectAnswer: "true"}, "True", 1, false},
		{"true-false wrong", Q{Type: TypeTrueFalse, Points: 1, CorrectAnswer: "false"}, "yes", 0, false},
		{"short exact", Q{Type: TypeShortAnswer, Points: 4, CorrectAnswer: "Paris"}, " paris. ", 4, false},
		{"short fuzzy", Q{Type: TypeShortAnswer, Points: 4, CorrectAnswer: "Paris"}, "Pariss", 2, false},
		{"short miss", Q{Type: TypeShortAnswer, Points: 4, CorrectAnswer: "Paris"}, "London", 0, false},
		{"short without key", Q{Type: TypeShortAnswer, Points: 4}, "anything", 0, true},
		{"essay", Q{Type: TypeEssay, Points: 10}, "long text", 0, true},
		{"unknown type", Q{Type: "matching", Points: 3}, "x", 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := g.Grade(ctx, c.q, c.response)
			require.NoError(t, err)
			assert.Equal(t, c.wantPoints, res.AutoPoints)
			assert.Equal(t, c.q.Points, res.MaxPoints)
			assert.Equal(t, c.wantManual, res.NeedsManual)
		})
	}
}

func TestTrueFalseRejectsGarbage(t *testing.T) {
	_, err := NewDefaultGrader().Grade(context.Background(),
		Q{Type: TypeTrueFalse, Points: 1, CorrectAnswer: "true"}, "maybe")
	assert.Error(t, err)
}

func TestFuzzyDisabled(t *testing.T) {
	res, err := NewDefaultGrader(WithMaxEditDistance(0)).Grade(context.Background(),
		Q{Type: TypeShortAnswer, Points: 4, CorrectAnswer: "Paris"}, "Pariss")
	require.NoError(t, err)
	assert.Zero(t, res.AutoPoints)
}
