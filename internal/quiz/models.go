package quiz

import "github.com/mind-engage/mindengage-quiz/internal/grading"

const (
	TypeMultipleChoice = grading.TypeMultipleChoice
	TypeTrueFalse      = grading.TypeTrueFalse
	TypeShortAnswer    = grading.TypeShortAnswer
	TypeEssay          = grading.TypeEssay
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// OptionLetters are the choice labels of a multiple-choice question, in display order.
var OptionLetters = []string{"A", "B", "C", "D"}

type Course struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	CreatedBy string `json:"created_by" db:"created_by"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type Question struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	TeacherID   string `json:"teacher_id"`
	Text        string `json:"text"`
	TextHTML    string `json:"text_html,omitempty"` // rendered for students, never stored
	Type        string `json:"type"`                // multiple-choice, true-false, short-answer, essay
	Difficulty  string `json:"difficulty"`          // easy, medium, hard
	Subject     string `json:"subject"`
	Topic       string `json:"topic,omitempty"`
	Explanation string `json:"explanation,omitempty"`

	Options       map[string]string `json:"options,omitempty"` // letter -> text, multiple-choice only
	CorrectAnswer string            `json:"correct_answer,omitempty"`
	Points        float64           `json:"points"`

	IsActive  bool  `json:"is_active"`
	CreatedAt int64 `json:"created_at"`
}

// Answer is a student's latest response to one question; resubmitting replaces it.
type Answer struct {
	ID          string  `json:"id" db:"id"`
	QuestionID  string  `json:"question_id" db:"question_id"`
	StudentID   string  `json:"student_id" db:"student_id"`
	CourseID    string  `json:"course_id" db:"course_id"`
	Response    string  `json:"response" db:"response"`
	Score       float64 `json:"score" db:"score"`
	MaxScore    float64 `json:"max_score" db:"max_score"`
	NeedsReview bool    `json:"needs_review" db:"needs_review"`
	Feedback    string  `json:"feedback,omitempty" db:"feedback"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
	UpdatedAt   int64   `json:"updated_at" db:"updated_at"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Filter narrows question lists. Empty fields match everything.
type Filter struct {
	Subject    string
	Difficulty string
	Type       string
	Status     string // completed|pending, student feed only
}

func (f Filter) matches(q Question) bool {
	return (f.Subject == "" || q.Subject == f.Subject) &&
		(f.Difficulty == "" || q.Difficulty == f.Difficulty) &&
		(f.Type == "" || q.Type == f.Type)
}

type StudentStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type TeacherStats struct {
	Total     int            `json:"total"`
	Easy      int            `json:"easy"`
	Medium    int            `json:"medium"`
	Hard      int            `json:"hard"`
	BySubject map[string]int `json:"by_subject"`
}

type FeedItem struct {
	Question
	Status string  `json:"status"`
	Answer *Answer `json:"answer,omitempty"`
}

// Feed is one student's view of a course: every active question in that
// student's own order.
type Feed struct {
	CourseID string       `json:"course_id"`
	Items    []FeedItem   `json:"items"`
	Stats    StudentStats `json:"stats"`
	Subjects []string     `json:"subjects"`
}
