package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

var (
	questions = []quiz.Question{
		{ID: "q1", Text: "Capital of France?", Type: quiz.TypeShortAnswer, Points: 4},
		{ID: "q2", Text: "Explain gravity", Type: quiz.TypeEssay, Points: 10},
	}
	answers = []quiz.Answer{
		{QuestionID: "q1", StudentID: "s1", Response: "Paris", Score: 4, MaxScore: 4, UpdatedAt: 1},
		{QuestionID: "q1", StudentID: "s2", Response: "Pariss", Score: 2, MaxScore: 4, UpdatedAt: 2},
		{QuestionID: "q1", StudentID: "s3", Response: "Rome", Score: 0, MaxScore: 4, UpdatedAt: 3},
	}
)

func TestSummarize(t *testing.T) {
	sum := Summarize("c1", questions, answers)
	assert.Equal(t, "c1", sum.CourseID)
	assert.Equal(t, 3, sum.Students)
	assert.Equal(t, 3, sum.Answers)
	assert.InDelta(t, 2.0, sum.Mean, 1e-9)

	require.Len(t, sum.Questions, 2)
	q1 := sum.Questions[0]
	assert.Equal(t, 3, q1.Responses)
	assert.InDelta(t, 2.0, q1.Mean, 1e-9)
	assert.InDelta(t, 2.0, q1.Median, 1e-9)
	assert.Greater(t, q1.StdDev, 0.0)

	q2 := sum.Questions[1]
	assert.Equal(t, 0, q2.Responses)
	assert.Zero(t, q2.Mean)
}

func TestWriteAnswersXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnswersXLSX(&buf, questions, answers, Summarize("c1", questions, answers)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{answersSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(answersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Student", rows[0][0])
	assert.Equal(t, "s1", rows[1][0])
	assert.Equal(t, "Capital of France?", rows[1][1])

	cell, err := f.GetCellValue(summarySheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Explain gravity", cell)
}
