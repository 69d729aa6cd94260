// Package report builds gradebook summaries and spreadsheet exports for a course.
package report

import (
	"github.com/montanaflynn/stats"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type QuestionSummary struct {
	QuestionID  string  `json:"question_id"`
	Text        string  `json:"text"`
	Type        string  `json:"type"`
	MaxScore    float64 `json:"max_score"`
	Responses   int     `json:"responses"`
	NeedsReview int     `json:"needs_review"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	StdDev      float64 `json:"std_dev"`
}

type CourseSummary struct {
	CourseID  string            `json:"course_id"`
	Students  int               `json:"students"`
	Answers   int               `json:"answers"`
	Mean      float64           `json:"mean"`
	Questions []QuestionSummary `json:"questions"`
}

// Summarize aggregates scores per question, in the order questions are given.
// Questions nobody answered report zeroes.
func Summarize(courseID string, questions []quiz.Question, answers []quiz.Answer) CourseSummary {
	byQuestion := map[string]stats.Float64Data{}
	review := map[string]int{}
	students := map[string]bool{}
	var all stats.Float64Data
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a.Score)
		all = append(all, a.Score)
		students[a.StudentID] = true
		if a.NeedsReview {
			review[a.QuestionID]++
		}
	}

	out := CourseSummary{
		CourseID:  courseID,
		Students:  len(students),
		Answers:   len(answers),
		Questions: make([]QuestionSummary, 0, len(questions)),
	}
	out.Mean, _ = stats.Mean(all)
	for _, q := range questions {
		data := byQuestion[q.ID]
		s := QuestionSummary{
			QuestionID:  q.ID,
			Text:        q.Text,
			Type:        q.Type,
			MaxScore:    q.Points,
			Responses:   len(data),
			NeedsReview: review[q.ID],
		}
		if len(data) > 0 {
			s.Mean, _ = stats.Mean(data)
			s.Median, _ = stats.Median(data)
			s.StdDev, _ = stats.StandardDeviation(data)
		}
		out.Questions = append(out.Questions, s)
	}
	return out
}
