package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/ordering"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

// Event types written to the change log.
const (
	EventQuestionCreated = "QuestionCreated"
	EventQuestionDeleted = "QuestionDeleted"
	EventAnswerSubmitted = "AnswerSubmitted"
)

// StudentDirectory resolves what a teacher types when enrolling, either a
// student's account id or the school student id given at registration, to
// student account ids. Identifiers it does not know are absent from the map.
type StudentDirectory interface {
	ResolveStudents(ctx context.Context, ids []string) (map[string]string, error)
}

// EventSink receives change notifications; *syncx.EventRepo satisfies it.
type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
}

type Service struct {
	store  Store
	grader grading.Grader
	events   EventSink
	students StudentDirectory
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

func WithGrader(g grading.Grader) Option { return func(s *Service) { s.grader = g } }
func WithEvents(e EventSink) Option      { return func(s *Service) { s.events = e } }
func WithStudents(d StudentDirectory) Option {
	return func(s *Service) { s.students = d }
}
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}
func WithIDs(newID func() string) Option { return func(s *Service) { s.newID = newID } }

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		grader: grading.NewDefaultGrader(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ---- courses ----

func (s *Service) CreateCourse(ctx context.Context, actor Actor, name string) (Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Course{}, fmt.Errorf("%w: course name required", ErrInvalid)
	}
	c := Course{ID: s.newID(), Name: name, CreatedBy: actor.ID, CreatedAt: s.now().Unix()}
	if err := s.store.CreateCourse(ctx, c); err != nil {
		return Course{}, err
	}
	return c, nil
}

func (s *Service) ListCourses(ctx context.Context, actor Actor) ([]Course, error) {
	switch actor.Role {
	case RoleAdmin:
		return s.store.ListCourses(ctx, CourseListOpts{})
	case RoleTeacher:
		return s.store.ListCourses(ctx, CourseListOpts{CreatedBy: actor.ID})
	default:
		return s.store.ListCourses(ctx, CourseListOpts{StudentID: actor.ID})
	}
}

// EnrollStudents enrolls students by account id or school student id and
// returns how many distinct accounts were enrolled. Nothing is stored when any
// identifier is unknown.
func (s *Service) EnrollStudents(ctx context.Context, actor Actor, courseID string, studentIDs []string) (int, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no student ids", ErrInvalid)
	}
	if s.students != nil {
		resolved, err := s.students.ResolveStudents(ctx, ids)
		if err != nil {
			return 0, err
		}
		var unknown []string
		for i, id := range ids {
			uid, ok := resolved[id]
			if !ok {
				unknown = append(unknown, id)
				continue
			}
			ids[i] = uid
		}
		if len(unknown) > 0 {
			return 0, fmt.Errorf("%w: unknown students: %s", ErrInvalid, strings.Join(unknown, ", "))
		}
	}
	ids = dedupe(ids)
	if err := s.store.Enroll(ctx, courseID, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) ownedCourse(ctx context.Context, actor Actor, courseID string) (Course, error) {
	c, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, err
	}
	if c.CreatedBy != actor.ID && !actor.IsAdmin() {
		return Course{}, fmt.Errorf("%w: course %s belongs to another teacher", ErrForbidden, courseID)
	}
	return c, nil
}

func (s *Service) enrolledCourse(ctx context.Context, actor Actor, courseID string) (Course, error) {
	c, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, err
	}
	if actor.IsAdmin() || c.CreatedBy == actor.ID {
		return c, nil
	}
	ok, err := s.store.IsEnrolled(ctx, courseID, actor.ID)
	if err != nil {
		return Course{}, err
	}
	if !ok {
		return Course{}, fmt.Errorf("%w: not enrolled in course %s", ErrForbidden, courseID)
	}
	return c, nil
}

// ---- questions (teacher side) ----

func (s *Service) CreateQuestion(ctx context.Context, actor Actor, q Question) (Question, error) {
	if _, err := s.ownedCourse(ctx, actor, q.CourseID); err != nil {
		return Question{}, err
	}
	q = cleanQuestion(q)
	if err := ValidateQuestion(q); err != nil {
		return Question{}, err
	}
	q.ID = s.newID()
	q.TeacherID = actor.ID
	q.CreatedAt = s.now().Unix()
	q.IsActive = true
	if q.Points <= 0 {
		q.Points = 1
	}
	if err := s.store.PutQuestion(ctx, q); err != nil {
		return Question{}, err
	}
	s.emit(ctx, EventQuestionCreated, q.CourseID, map[string]string{"question_id": q.ID})
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, actor Actor, id string) error {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if q.TeacherID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: question %s belongs to another teacher", ErrForbidden, id)
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, EventQuestionDeleted, q.CourseID, map[string]string{"question_id": id})
	return nil
}

// TeacherQuestions lists a course's questions newest first. Stats always
// cover the whole course, not just the filtered subset.
func (s *Service) TeacherQuestions(ctx context.Context, actor Actor, courseID string, f Filter) ([]Question, TeacherStats, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, TeacherStats{}, err
	}
	all, err := s.store.ListQuestions(ctx, QuestionListOpts{CourseID: courseID})
	if err != nil {
		return nil, TeacherStats{}, err
	}
	stats := TeacherStats{Total: len(all), BySubject: map[string]int{}}
	out := make([]Question, 0, len(all))
	for _, q := range all {
		switch q.Difficulty {
		case DifficultyEasy:
			stats.Easy++
		case DifficultyMedium:
			stats.Medium++
		case DifficultyHard:
			stats.Hard++
		}
		stats.BySubject[q.Subject]++
		if f.matches(q) {
			out = append(out, q)
		}
	}
	return out, stats, nil
}

// ImportQuestions drafts questions from document text. With save=false the
// drafts are only returned for review; with save=true each one is stored and
// the number saved is reported.
func (s *Service) ImportQuestions(ctx context.Context, actor Actor, courseID, text string, d ImportDefaults, save bool) ([]Question, int, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, 0, err
	}
	drafts := ExtractQuestions(text, d)
	for i := range drafts {
		drafts[i].CourseID = courseID
	}
	if !save {
		return drafts, 0, nil
	}
	saved := make([]Question, 0, len(drafts))
	for _, q := range drafts {
		created, err := s.CreateQuestion(ctx, actor, q)
		if err != nil {
			log.Printf("import: skip %q: %v", q.Text, err)
			continue
		}
		saved = append(saved, created)
	}
	return saved, len(saved), nil
}

// ---- student side ----

// StudentFeed returns every active question of the course in the order
// reserved for this student, plus completion state. Filters are applied after
// ordering, so narrowing the view never reshuffles what remains.
func (s *Service) StudentFeed(ctx context.Context, actor Actor, courseID string, f Filter) (Feed, error) {
	if _, err := s.enrolledCourse(ctx, actor, courseID); err != nil {
		return Feed{}, err
	}

	var (
		questions []Question
		answers   []Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.store.ListQuestions(gctx, QuestionListOpts{CourseID: courseID, ActiveOnly: true})
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = s.store.ListAnswers(gctx, AnswerListOpts{CourseID: courseID, StudentID: actor.ID})
		return err
	})
	if err := g.Wait(); err != nil {
		return Feed{}, err
	}

	sortQuestions(questions)
	ordered := ordering.Shuffle(questions, ordering.Key(actor.ID, courseID))

	byQuestion := make(map[string]Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	feed := Feed{CourseID: courseID, Items: []FeedItem{}, Subjects: []string{}}
	subjects := map[string]bool{}
	for _, q := range ordered {
		item := FeedItem{Question: studentView(q), Status: StatusPending}
		if a, ok := byQuestion[q.ID]; ok {
			a := a
			item.Answer = &a
			item.Status = StatusCompleted
			item.Explanation = q.Explanation
			feed.Stats.Completed++
		}
		feed.Stats.Total++
		if q.Subject != "" && !subjects[q.Subject] {
			subjects[q.Subject] = true
			feed.Subjects = append(feed.Subjects, q.Subject)
		}
		if f.matches(q) && (f.Status == "" || f.Status == item.Status) {
			feed.Items = append(feed.Items, item)
		}
	}
	feed.Stats.Pending = feed.Stats.Total - feed.Stats.Completed
	sort.Strings(feed.Subjects)
	return feed, nil
}

// SubmitAnswer grades and stores the caller's answer, replacing any earlier one.
func (s *Service) SubmitAnswer(ctx context.Context, actor Actor, questionID, response string) (Answer, error) {
	if strings.TrimSpace(response) == "" {
		return Answer{}, fmt.Errorf("%w: answer required", ErrInvalid)
	}
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return Answer{}, err
	}
	if !q.IsActive {
		return Answer{}, fmt.Errorf("%w: question %s", ErrNotFound, questionID)
	}
	if _, err := s.enrolledCourse(ctx, actor, q.CourseID); err != nil {
		return Answer{}, err
	}

	res, err := s.grader.Grade(ctx, grading.Q{Type: q.Type, Points: q.Points, CorrectAnswer: q.CorrectAnswer}, response)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	now := s.now().Unix()
	a, err := s.store.UpsertAnswer(ctx, Answer{
		ID:          s.newID(),
		QuestionID:  q.ID,
		StudentID:   actor.ID,
		CourseID:    q.CourseID,
		Response:    response,
		Score:       res.AutoPoints,
		MaxScore:    res.MaxPoints,
		NeedsReview: res.NeedsManual,
		Feedback:    strings.Join(res.Feedback, "; "),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Answer{}, err
	}
	s.emit(ctx, EventAnswerSubmitted, q.CourseID, map[string]string{"question_id": q.ID, "student_id": actor.ID})
	return a, nil
}

// CourseAnswers lists answers in a course: all of them for the owning
// teacher, only the caller's own for a student.
func (s *Service) CourseAnswers(ctx context.Context, actor Actor, courseID string) ([]Answer, error) {
	c, err := s.enrolledCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	opts := AnswerListOpts{CourseID: courseID}
	if !actor.IsAdmin() && c.CreatedBy != actor.ID {
		opts.StudentID = actor.ID
	}
	return s.store.ListAnswers(ctx, opts)
}

// CourseResults gathers what a gradebook needs for a course the actor owns.
func (s *Service) CourseResults(ctx context.Context, actor Actor, courseID string) (Course, []Question, []Answer, error) {
	c, err := s.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return Course{}, nil, nil, err
	}
	qs, err := s.store.ListQuestions(ctx, QuestionListOpts{CourseID: courseID})
	if err != nil {
		return Course{}, nil, nil, err
	}
	as, err := s.store.ListAnswers(ctx, AnswerListOpts{CourseID: courseID})
	if err != nil {
		return Course{}, nil, nil, err
	}
	return c, qs, as, nil
}

// CanWatch reports whether actor may follow the change log of a course.
func (s *Service) CanWatch(ctx context.Context, actor Actor, courseID string) (owner bool, err error) {
	c, err := s.enrolledCourse(ctx, actor, courseID)
	if err != nil {
		return false, err
	}
	return actor.IsAdmin() || c.CreatedBy == actor.ID, nil
}

func (s *Service) emit(ctx context.Context, typ, courseID string, data map[string]string) {
	if s.events == nil {
		return
	}
	buf, _ := json.Marshal(data)
	if err := s.events.Append(ctx, syncx.Event{Type: typ, Key: courseID, DataJSON: string(buf)}); err != nil {
		log.Printf("event %s for course %s: %v", typ, courseID, err)
	}
}

// studentView hides what a student must not see before answering.
func studentView(q Question) Question {
	q.CorrectAnswer = ""
	q.Explanation = ""
	q.TextHTML = RenderMarkdown(q.Text)
	return q
}
