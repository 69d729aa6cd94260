package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// POST /courses
func CreateCourseHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name" validate:"notblank"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := svc.CreateCourse(r.Context(), actorFrom(r), req.Name)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, c)
	}
}

// GET /courses
func ListCoursesHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := svc.ListCourses(r.Context(), actorFrom(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, cs)
	}
}

// POST /courses/{courseID}/students  { "student_ids": ["..."] }
//
// Each id may be a student's account id or their school student id.
func EnrollStudentsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentIDs []string `json:"student_ids" validate:"required,min=1"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		courseID := chi.URLParam(r, "courseID")
		n, err := svc.EnrollStudents(r.Context(), actorFrom(r), courseID, req.StudentIDs)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"course_id": courseID, "enrolled": n})
	}
}
