package quiz

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryStore struct {
	mu        sync.RWMutex
	courses   map[string]Course
	enrolled  map[string]map[string]bool // course -> student
	questions map[string]Question
	answers   map[string]Answer // student|question -> answer
}

// NewInMemoryStore keeps everything in process memory; used by tests and demos.
func NewInMemoryStore() Store {
	return &memoryStore{
		courses:   map[string]Course{},
		enrolled:  map[string]map[string]bool{},
		questions: map[string]Question{},
		answers:   map[string]Answer{},
	}
}

func (m *memoryStore) CreateCourse(_ context.Context, c Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[c.ID]; ok {
		return fmt.Errorf("%w: course %s exists", ErrConflict, c.ID)
	}
	m.courses[c.ID] = c
	return nil
}

func (m *memoryStore) GetCourse(_ context.Context, id string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return Course{}, fmt.Errorf("%w: course %s", ErrNotFound, id)
	}
	return c, nil
}

func (m *memoryStore) ListCourses(_ context.Context, opts CourseListOpts) ([]Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Course{}
	for _, c := range m.courses {
		if opts.CreatedBy != "" && c.CreatedBy != opts.CreatedBy {
			continue
		}
		if opts.StudentID != "" && !m.enrolled[c.ID][opts.StudentID] {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryStore) Enroll(_ context.Context, courseID string, studentIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[courseID]; !ok {
		return fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}
	set := m.enrolled[courseID]
	if set == nil {
		set = map[string]bool{}
		m.enrolled[courseID] = set
	}
	for _, id := range studentIDs {
		set[id] = true
	}
	return nil
}

func (m *memoryStore) IsEnrolled(_ context.Context, courseID, studentID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enrolled[courseID][studentID], nil
}

func (m *memoryStore) PutQuestion(_ context.Context, q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[q.CourseID]; !ok {
		return fmt.Errorf("%w: course %s", ErrNotFound, q.CourseID)
	}
	q.Options = copyOptions(q.Options)
	m.questions[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: question %s", ErrNotFound, id)
	}
	q.Options = copyOptions(q.Options)
	return q, nil
}

func (m *memoryStore) DeleteQuestion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return fmt.Errorf("%w: question %s", ErrNotFound, id)
	}
	delete(m.questions, id)
	for k, a := range m.answers {
		if a.QuestionID == id {
			delete(m.answers, k)
		}
	}
	return nil
}

func (m *memoryStore) ListQuestions(_ context.Context, opts QuestionListOpts) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Question{}
	for _, q := range m.questions {
		if opts.CourseID != "" && q.CourseID != opts.CourseID {
			continue
		}
		if opts.ActiveOnly && !q.IsActive {
			continue
		}
		q.Options = copyOptions(q.Options)
		out = append(out, q)
	}
	sortQuestions(out)
	return out, nil
}

func (m *memoryStore) UpsertAnswer(_ context.Context, a Answer) (Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[a.QuestionID]; !ok {
		return Answer{}, fmt.Errorf("%w: question %s", ErrNotFound, a.QuestionID)
	}
	k := a.StudentID + "|" + a.QuestionID
	if prev, ok := m.answers[k]; ok {
		a.ID = prev.ID
		a.CreatedAt = prev.CreatedAt
	}
	m.answers[k] = a
	return a, nil
}

func (m *memoryStore) ListAnswers(_ context.Context, opts AnswerListOpts) ([]Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Answer{}
	for _, a := range m.answers {
		if opts.CourseID != "" && a.CourseID != opts.CourseID {
			continue
		}
		if opts.StudentID != "" && a.StudentID != opts.StudentID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func copyOptions(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
