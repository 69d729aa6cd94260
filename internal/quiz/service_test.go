package quiz

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

var (
	teacher  = Actor{ID: "t1", Role: RoleTeacher}
	other    = Actor{ID: "t2", Role: RoleTeacher}
	stu42    = Actor{ID: "stu42", Role: RoleStudent}
	stu43    = Actor{ID: "stu43", Role: RoleStudent}
	outsider = Actor{ID: "stu99", Role: RoleStudent}
)

func seqIDs(ids ...string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		if n <= len(ids) {
			return ids[n-1]
		}
		return fmt.Sprintf("id-%d", n)
	}
}

// directory knows stu42 and stu43 by account id, and stu43 also by school id S-43.
type directory map[string]string

func (d directory) ResolveStudents(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if uid, ok := d[id]; ok {
			out[id] = uid
		}
	}
	return out, nil
}

var knownStudents = directory{"stu42": "stu42", "stu43": "stu43", "S-43": "stu43"}

type recordedEvents struct {
	mu     sync.Mutex
	events []syncx.Event
}

func (r *recordedEvents) Append(_ context.Context, e syncx.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// newFixture builds course7 owned by t1 with questions q1..q5, all created at
// the same instant so they enter the shuffle in id order.
func newFixture(t *testing.T) (*Service, *recordedEvents) {
	t.Helper()
	ctx := context.Background()
	events := &recordedEvents{}
	svc := NewService(NewInMemoryStore(),
		WithClock(func() time.Time { return time.Unix(1_700_000_000, 0) }),
		WithIDs(seqIDs("course7", "q1", "q2", "q3", "q4", "q5")),
		WithEvents(events),
		WithStudents(knownStudents),
	)
	c, err := svc.CreateCourse(ctx, teacher, "Physics 101")
	require.NoError(t, err)
	require.Equal(t, "course7", c.ID)
	n, err := svc.EnrollStudents(ctx, teacher, c.ID, []string{"stu42", " stu43 ", ""})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	subjects := []string{"math", "physics", "math", "physics", "math"}
	for i, subj := range subjects {
		_, err := svc.CreateQuestion(ctx, teacher, Question{
			CourseID:      c.ID,
			Text:          fmt.Sprintf("Question number %d?", i+1),
			Type:          TypeMultipleChoice,
			Difficulty:    DifficultyMedium,
			Subject:       subj,
			Explanation:   "because",
			Options:       map[string]string{"A": "yes", "B": "no"},
			CorrectAnswer: "a",
		})
		require.NoError(t, err)
	}
	return svc, events
}

func feedIDs(f Feed) []string {
	out := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestStudentFeedOrderPerStudent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	f42, err := svc.StudentFeed(ctx, stu42, "course7", Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"q5", "q3", "q1", "q2", "q4"}, feedIDs(f42))

	f43, err := svc.StudentFeed(ctx, stu43, "course7", Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"q3", "q5", "q4", "q1", "q2"}, feedIDs(f43))

	again, err := svc.StudentFeed(ctx, stu42, "course7", Filter{})
	require.NoError(t, err)
	assert.Equal(t, feedIDs(f42), feedIDs(again))
}

func TestStudentFeedHidesAnswerKey(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	f, err := svc.StudentFeed(ctx, stu42, "course7", Filter{})
	require.NoError(t, err)
	require.Len(t, f.Items, 5)
	for _, it := range f.Items {
		assert.Empty(t, it.CorrectAnswer)
		assert.Empty(t, it.Explanation)
		assert.Equal(t, StatusPending, it.Status)
		assert.Contains(t, it.TextHTML, "<p>")
	}
	assert.Equal(t, StudentStats{Total: 5, Completed: 0, Pending: 5}, f.Stats)
	assert.Equal(t, []string{"math", "physics"}, f.Subjects)
}

func TestStudentFeedFiltersKeepOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	f, err := svc.StudentFeed(ctx, stu42, "course7", Filter{Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, []string{"q5", "q3", "q1"}, feedIDs(f))
	assert.Equal(t, 5, f.Stats.Total)

	_, err = svc.SubmitAnswer(ctx, stu42, "q3", "A")
	require.NoError(t, err)

	done, err := svc.StudentFeed(ctx, stu42, "course7", Filter{Status: StatusCompleted})
	require.NoError(t, err)
	require.Equal(t, []string{"q3"}, feedIDs(done))
	assert.Equal(t, "because", done.Items[0].Explanation)
	require.NotNil(t, done.Items[0].Answer)
	assert.Equal(t, 1.0, done.Items[0].Answer.Score)

	pending, err := svc.StudentFeed(ctx, stu42, "course7", Filter{Status: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, []string{"q5", "q1", "q2", "q4"}, feedIDs(pending))
	assert.Equal(t, StudentStats{Total: 5, Completed: 1, Pending: 4}, pending.Stats)
}

func TestStudentFeedRequiresEnrollment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	_, err := svc.StudentFeed(ctx, outsider, "course7", Filter{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.StudentFeed(ctx, stu42, "nope", Filter{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitAnswerReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	svc, events := newFixture(t)

	first, err := svc.SubmitAnswer(ctx, stu42, "q1", "B")
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.Score)
	assert.Equal(t, 1.0, first.MaxScore)

	second, err := svc.SubmitAnswer(ctx, stu42, "q1", "A")
	require.NoError(t, err)
	assert.Equal(t, 1.0, second.Score)
	assert.Equal(t, first.ID, second.ID)

	mine, err := svc.CourseAnswers(ctx, stu42, "course7")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Response)

	assert.Equal(t, EventAnswerSubmitted, events.types()[len(events.types())-1])
}

func TestSubmitAnswerRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	_, err := svc.SubmitAnswer(ctx, stu42, "q1", "  ")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.SubmitAnswer(ctx, outsider, "q1", "A")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SubmitAnswer(ctx, stu42, "missing", "A")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateQuestionValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	cases := []struct {
		name string
		q    Question
	}{
		{"empty text", Question{Type: TypeEssay, Difficulty: DifficultyEasy}},
		{"bad type", Question{Text: "x", Type: "matching", Difficulty: DifficultyEasy}},
		{"bad difficulty", Question{Text: "x", Type: TypeEssay, Difficulty: "extreme"}},
		{"one option", Question{Text: "x", Type: TypeMultipleChoice, Difficulty: DifficultyEasy, Options: map[string]string{"A": "only"}}},
		{"option letter", Question{Text: "x", Type: TypeMultipleChoice, Difficulty: DifficultyEasy, Options: map[string]string{"A": "a", "E": "e"}}},
		{"key not an option", Question{Text: "x", Type: TypeMultipleChoice, Difficulty: DifficultyEasy, Options: map[string]string{"A": "a", "B": "b"}, CorrectAnswer: "C"}},
		{"true-false key", Question{Text: "x", Type: TypeTrueFalse, Difficulty: DifficultyEasy, CorrectAnswer: "maybe"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c.q.CourseID = "course7"
			_, err := svc.CreateQuestion(ctx, teacher, c.q)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	q, err := svc.CreateQuestion(ctx, teacher, Question{CourseID: "course7", Text: "Sky is blue", Type: TypeTrueFalse, Difficulty: DifficultyEasy, CorrectAnswer: "Yes"})
	require.NoError(t, err)
	assert.Equal(t, "true", q.CorrectAnswer)
	assert.Equal(t, 1.0, q.Points)

	_, err = svc.CreateQuestion(ctx, other, Question{CourseID: "course7", Text: "x", Type: TypeEssay, Difficulty: DifficultyEasy})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteQuestion(t *testing.T) {
	ctx := context.Background()
	svc, events := newFixture(t)

	assert.ErrorIs(t, svc.DeleteQuestion(ctx, other, "q2"), ErrForbidden)
	require.NoError(t, svc.DeleteQuestion(ctx, teacher, "q2"))
	assert.ErrorIs(t, svc.DeleteQuestion(ctx, teacher, "q2"), ErrNotFound)
	assert.Contains(t, events.types(), EventQuestionDeleted)

	f, err := svc.StudentFeed(ctx, stu42, "course7", Filter{})
	require.NoError(t, err)
	assert.Len(t, f.Items, 4)
	assert.NotContains(t, feedIDs(f), "q2")
}

func TestTeacherQuestionsStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	_, err := svc.CreateQuestion(ctx, teacher, Question{CourseID: "course7", Text: "Hard one", Type: TypeEssay, Difficulty: DifficultyHard, Subject: "math"})
	require.NoError(t, err)

	qs, stats, err := svc.TeacherQuestions(ctx, teacher, "course7", Filter{Difficulty: DifficultyHard})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Hard one", qs[0].Text)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 5, stats.Medium)
	assert.Equal(t, 1, stats.Hard)
	assert.Equal(t, 4, stats.BySubject["math"])

	_, _, err = svc.TeacherQuestions(ctx, other, "course7", Filter{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListCoursesByRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	mine, err := svc.ListCourses(ctx, teacher)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListCourses(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	enrolled, err := svc.ListCourses(ctx, stu43)
	require.NoError(t, err)
	assert.Len(t, enrolled, 1)

	all, err := svc.ListCourses(ctx, Actor{ID: "root", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImportQuestions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)
	text := "Question 1: What is the capital of France?\nA) London B) Paris C) Berlin D) Madrid\n"

	drafts, n, err := svc.ImportQuestions(ctx, teacher, "course7", text, ImportDefaults{Subject: "geo"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.Len(t, drafts, 1)
	assert.Empty(t, drafts[0].ID)

	saved, n, err := svc.ImportQuestions(ctx, teacher, "course7", text, ImportDefaults{Subject: "geo"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, saved, 1)
	assert.NotEmpty(t, saved[0].ID)
	assert.Equal(t, "t1", saved[0].TeacherID)

	_, _, err = svc.ImportQuestions(ctx, other, "course7", text, ImportDefaults{}, true)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEnrollStudentsResolvesIdentifiers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)
	c, err := svc.CreateCourse(ctx, teacher, "Chemistry")
	require.NoError(t, err)

	n, err := svc.EnrollStudents(ctx, teacher, c.ID, []string{"S-43", "stu43", " "})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "school id and account id name the same student")

	_, err = svc.StudentFeed(ctx, stu43, c.ID, Filter{})
	assert.NoError(t, err)

	_, err = svc.EnrollStudents(ctx, teacher, c.ID, []string{"stu42", "nobody"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "nobody")
	_, err = svc.StudentFeed(ctx, stu42, c.ID, Filter{})
	assert.ErrorIs(t, err, ErrForbidden, "a rejected batch enrolls no one")

	_, err = svc.EnrollStudents(ctx, teacher, c.ID, []string{"", "  "})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = svc.EnrollStudents(ctx, other, c.ID, []string{"stu42"})
	assert.ErrorIs(t, err, ErrForbidden)
}
