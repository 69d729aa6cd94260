package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// GET /courses/{courseID}/feed?subject=&difficulty=&type=&status=
func FeedHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := svc.StudentFeed(r.Context(), actorFrom(r), chi.URLParam(r, "courseID"), filterFrom(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, feed)
	}
}

// POST /questions/{questionID}/answers  { "response": "B" }
func SubmitAnswerHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Response string `json:"response" validate:"notblank"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		a, err := svc.SubmitAnswer(r.Context(), actorFrom(r), chi.URLParam(r, "questionID"), req.Response)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, a)
	}
}

// GET /courses/{courseID}/answers
func ListAnswersHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		as, err := svc.CourseAnswers(r.Context(), actorFrom(r), chi.URLParam(r, "courseID"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, as)
	}
}
