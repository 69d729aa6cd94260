package quiz

import (
	"context"
	"sort"
)

type CourseListOpts struct {
	CreatedBy string // teacher's own courses
	StudentID string // courses the student is actively enrolled in
}

type QuestionListOpts struct {
	CourseID   string
	ActiveOnly bool
}

type AnswerListOpts struct {
	CourseID  string
	StudentID string
}

// Store persists courses, questions and answers. ListQuestions returns
// newest first with id as tie-break; the student feed depends on that order
// being reproducible.
type Store interface {
	CreateCourse(ctx context.Context, c Course) error
	GetCourse(ctx context.Context, id string) (Course, error)
	ListCourses(ctx context.Context, opts CourseListOpts) ([]Course, error)
	Enroll(ctx context.Context, courseID string, studentIDs []string) error
	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)

	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, opts QuestionListOpts) ([]Question, error)

	UpsertAnswer(ctx context.Context, a Answer) (Answer, error)
	ListAnswers(ctx context.Context, opts AnswerListOpts) ([]Answer, error)
}

func sortQuestions(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].CreatedAt != qs[j].CreatedAt {
			return qs[i].CreatedAt > qs[j].CreatedAt
		}
		return qs[i].ID < qs[j].ID
	})
}
