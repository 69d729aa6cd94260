package http

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

type questionRequest struct {
	Text          string            `json:"text" validate:"notblank"`
	Type          string            `json:"type" validate:"required,oneof=multiple-choice true-false short-answer essay"`
	Difficulty    string            `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Subject       string            `json:"subject"`
	Topic         string            `json:"topic"`
	Explanation   string            `json:"explanation"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Points        float64           `json:"points" validate:"gte=0"`
}

// POST /courses/{courseID}/questions
func CreateQuestionHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		q, err := svc.CreateQuestion(r.Context(), actorFrom(r), quiz.Question{
			CourseID:      chi.URLParam(r, "courseID"),
			Text:          req.Text,
			Type:          req.Type,
			Difficulty:    req.Difficulty,
			Subject:       req.Subject,
			Topic:         req.Topic,
			Explanation:   req.Explanation,
			Options:       req.Options,
			CorrectAnswer: req.CorrectAnswer,
			Points:        req.Points,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, q)
	}
}

// GET /courses/{courseID}/questions?subject=&difficulty=&type=
func ListQuestionsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, stats, err := svc.TeacherQuestions(r.Context(), actorFrom(r), chi.URLParam(r, "courseID"), filterFrom(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"questions": qs, "stats": stats})
	}
}

// GET /courses/{courseID}/stats
func QuestionStatsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, stats, err := svc.TeacherQuestions(r.Context(), actorFrom(r), chi.URLParam(r, "courseID"), quiz.Filter{})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// DELETE /questions/{questionID}
func DeleteQuestionHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteQuestion(r.Context(), actorFrom(r), chi.URLParam(r, "questionID")); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /courses/{courseID}/questions/import?save=true
//
// Accepts either multipart (field "file" holding extracted document text,
// plus subject/topic/difficulty form values) or JSON
// {"text","subject","topic","difficulty"}. Without save=true the drafted
// questions are returned for review and nothing is stored.
func ImportQuestionsHandler(svc *quiz.Service, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var (
			text string
			d    quiz.ImportDefaults
		)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			f, _, err := requireFile(r, "file")
			if err != nil {
				respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			defer f.Close()
			buf, err := io.ReadAll(f)
			if err != nil {
				respondJSON(w, http.StatusBadRequest, map[string]string{"error": "read file"})
				return
			}
			text = string(buf)
			d = quiz.ImportDefaults{
				Subject:    r.FormValue("subject"),
				Topic:      r.FormValue("topic"),
				Difficulty: r.FormValue("difficulty"),
			}
		} else {
			var req struct {
				Text       string `json:"text" validate:"notblank"`
				Subject    string `json:"subject"`
				Topic      string `json:"topic"`
				Difficulty string `json:"difficulty"`
			}
			if !decodeJSON(w, r, &req) {
				return
			}
			text = req.Text
			d = quiz.ImportDefaults{Subject: req.Subject, Topic: req.Topic, Difficulty: req.Difficulty}
		}

		save, _ := strconv.ParseBool(r.URL.Query().Get("save"))
		actor := actorFrom(r)
		courseID := chi.URLParam(r, "courseID")
		qs, n, err := svc.ImportQuestions(r.Context(), actor, courseID, text, d, save)
		if err != nil {
			respondError(w, err)
			return
		}

		out := map[string]any{"questions": qs, "saved": n}
		if save && bs != nil {
			key, err := bs.Put(r.Context(), storage.ImportKey(actor.ID), strings.NewReader(text))
			if err != nil {
				log.Printf("import source for course %s: %v", courseID, err)
			} else {
				out["source_key"] = key
				out["source_id"] = path.Base(key)
			}
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// GET /imports/{sourceID}
//
// Returns the text a teacher imported, as stored under their own prefix.
func ImportSourceHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sourceID")
		if _, err := uuid.Parse(strings.TrimSuffix(id, ".txt")); err != nil || !strings.HasSuffix(id, ".txt") {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "import source not found"})
			return
		}
		rc, err := bs.Get(r.Context(), path.Join("imports", actorFrom(r).ID, id))
		if errors.Is(err, os.ErrNotExist) {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "import source not found"})
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.Copy(w, rc)
	}
}

func requireFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	f, h, err := r.FormFile(field)
	if err != nil {
		return nil, nil, errors.New("missing file field: " + field)
	}
	return f, h, nil
}
