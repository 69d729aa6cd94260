package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

type questionRow struct {
	ID            string  `db:"id"`
	CourseID      string  `db:"course_id"`
	TeacherID     string  `db:"teacher_id"`
	Text          string  `db:"text"`
	Type          string  `db:"type"`
	Difficulty    string  `db:"difficulty"`
	Subject       string  `db:"subject"`
	Topic         string  `db:"topic"`
	Explanation   string  `db:"explanation"`
	OptionsJSON   string  `db:"options_json"`
	CorrectAnswer string  `db:"correct_answer"`
	Points        float64 `db:"points"`
	IsActive      bool    `db:"is_active"`
	CreatedAt     int64   `db:"created_at"`
}

const questionCols = `id,course_id,teacher_id,text,type,difficulty,subject,topic,explanation,options_json,correct_answer,points,is_active,created_at`
const answerCols = `id,question_id,student_id,course_id,response,score,max_score,needs_review,feedback,created_at,updated_at`

func toRow(q Question) (questionRow, error) {
	opts := q.Options
	if opts == nil {
		opts = map[string]string{}
	}
	buf, err := json.Marshal(opts)
	if err != nil {
		return questionRow{}, err
	}
	return questionRow{
		ID: q.ID, CourseID: q.CourseID, TeacherID: q.TeacherID, Text: q.Text,
		Type: q.Type, Difficulty: q.Difficulty, Subject: q.Subject, Topic: q.Topic,
		Explanation: q.Explanation, OptionsJSON: string(buf), CorrectAnswer: q.CorrectAnswer,
		Points: q.Points, IsActive: q.IsActive, CreatedAt: q.CreatedAt,
	}, nil
}

func (r questionRow) question() Question {
	q := Question{
		ID: r.ID, CourseID: r.CourseID, TeacherID: r.TeacherID, Text: r.Text,
		Type: r.Type, Difficulty: r.Difficulty, Subject: r.Subject, Topic: r.Topic,
		Explanation: r.Explanation, CorrectAnswer: r.CorrectAnswer,
		Points: r.Points, IsActive: r.IsActive, CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.OptionsJSON), &q.Options); err != nil || len(q.Options) == 0 {
		q.Options = nil
	}
	return q
}

func (s *SQLStore) CreateCourse(ctx context.Context, c Course) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO courses (id,name,created_by,created_at) VALUES (:id,:name,:created_by,:created_at)`, c)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: course %s exists", ErrConflict, c.ID)
	}
	return err
}

func (s *SQLStore) GetCourse(ctx context.Context, id string) (Course, error) {
	var c Course
	err := s.db.GetContext(ctx, &c, s.db.Rebind(`SELECT id,name,created_by,created_at FROM courses WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, fmt.Errorf("%w: course %s", ErrNotFound, id)
	}
	return c, err
}

func (s *SQLStore) ListCourses(ctx context.Context, opts CourseListOpts) ([]Course, error) {
	q := `SELECT c.id,c.name,c.created_by,c.created_at FROM courses c`
	var where []string
	var args []any
	if opts.StudentID != "" {
		q += ` JOIN course_students s ON s.course_id=c.id`
		where = append(where, `s.student_id=?`, `s.status='active'`)
		args = append(args, opts.StudentID)
	}
	if opts.CreatedBy != "" {
		where = append(where, `c.created_by=?`)
		args = append(args, opts.CreatedBy)
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY c.created_at DESC, c.id`

	out := []Course{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) Enroll(ctx context.Context, courseID string, studentIDs []string) error {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt := tx.Rebind(`INSERT INTO course_students (course_id,student_id,status) VALUES (?,?,'active')
		ON CONFLICT (course_id,student_id) DO UPDATE SET status='active'`)
	for _, id := range studentIDs {
		if _, err := tx.ExecContext(ctx, stmt, courseID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		s.db.Rebind(`SELECT COUNT(*) FROM course_students WHERE course_id=? AND student_id=? AND status='active'`),
		courseID, studentID)
	return n > 0, err
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	row, err := toRow(q)
	if err != nil {
		return err
	}
	if _, err := s.GetCourse(ctx, q.CourseID); err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO questions (`+questionCols+`)
		VALUES (:id,:course_id,:teacher_id,:text,:type,:difficulty,:subject,:topic,:explanation,:options_json,:correct_answer,:points,:is_active,:created_at)
		ON CONFLICT (id) DO UPDATE SET text=excluded.text, type=excluded.type, difficulty=excluded.difficulty,
			subject=excluded.subject, topic=excluded.topic, explanation=excluded.explanation,
			options_json=excluded.options_json, correct_answer=excluded.correct_answer,
			points=excluded.points, is_active=excluded.is_active`, row)
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	var row questionRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+questionCols+` FROM questions WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, fmt.Errorf("%w: question %s", ErrNotFound, id)
	}
	if err != nil {
		return Question{}, err
	}
	return row.question(), nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM answers WHERE question_id=?`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM questions WHERE id=?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: question %s", ErrNotFound, id)
	}
	return tx.Commit()
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts QuestionListOpts) ([]Question, error) {
	q := `SELECT ` + questionCols + ` FROM questions`
	var where []string
	var args []any
	if opts.CourseID != "" {
		where = append(where, `course_id=?`)
		args = append(args, opts.CourseID)
	}
	if opts.ActiveOnly {
		where = append(where, `is_active=?`)
		args = append(args, true)
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY created_at DESC, id`

	var rows []questionRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make([]Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.question())
	}
	// collation differences between drivers must not leak into the order
	sortQuestions(out)
	return out, nil
}

func (s *SQLStore) UpsertAnswer(ctx context.Context, a Answer) (Answer, error) {
	if _, err := s.GetQuestion(ctx, a.QuestionID); err != nil {
		return Answer{}, err
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO answers (`+answerCols+`)
		VALUES (:id,:question_id,:student_id,:course_id,:response,:score,:max_score,:needs_review,:feedback,:created_at,:updated_at)
		ON CONFLICT (student_id,question_id) DO UPDATE SET response=excluded.response, score=excluded.score,
			max_score=excluded.max_score, needs_review=excluded.needs_review, feedback=excluded.feedback,
			updated_at=excluded.updated_at`, a)
	if err != nil {
		return Answer{}, err
	}
	var out Answer
	err = s.db.GetContext(ctx, &out,
		s.db.Rebind(`SELECT `+answerCols+` FROM answers WHERE student_id=? AND question_id=?`),
		a.StudentID, a.QuestionID)
	return out, err
}

func (s *SQLStore) ListAnswers(ctx context.Context, opts AnswerListOpts) ([]Answer, error) {
	q := `SELECT ` + answerCols + ` FROM answers`
	var where []string
	var args []any
	if opts.CourseID != "" {
		where = append(where, `course_id=?`)
		args = append(args, opts.CourseID)
	}
	if opts.StudentID != "" {
		where = append(where, `student_id=?`)
		args = append(args, opts.StudentID)
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY updated_at DESC, id`

	out := []Answer{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}
