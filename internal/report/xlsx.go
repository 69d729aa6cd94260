package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

const (
	answersSheet = "Answers"
	summarySheet = "Summary"
)

// WriteAnswersXLSX writes a workbook with every answer on one sheet and the
// per-question summary on another.
func WriteAnswersXLSX(w io.Writer, questions []quiz.Question, answers []quiz.Answer, sum CourseSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", answersSheet); err != nil {
		return err
	}
	text := make(map[string]string, len(questions))
	for _, q := range questions {
		text[q.ID] = q.Text
	}
	rows := [][]any{{"Student", "Question", "Response", "Score", "Max", "Needs review", "Feedback", "Updated"}}
	for _, a := range answers {
		rows = append(rows, []any{
			a.StudentID, text[a.QuestionID], a.Response, a.Score, a.MaxScore,
			a.NeedsReview, a.Feedback, time.Unix(a.UpdatedAt, 0).UTC().Format(time.RFC3339),
		})
	}
	if err := writeRows(f, answersSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows = [][]any{{"Question", "Type", "Max", "Responses", "Needs review", "Mean", "Median", "Std dev"}}
	for _, q := range sum.Questions {
		rows = append(rows, []any{q.Text, q.Type, q.MaxScore, q.Responses, q.NeedsReview, q.Mean, q.Median, q.StdDev})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
