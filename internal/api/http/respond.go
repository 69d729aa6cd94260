package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	"github.com/mind-engage/mindengage-quiz/internal/validation"
)

const maxBodyBytes = 2 << 20

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without detail.
func respondError(w http.ResponseWriter, err error) {
	if fields := validation.FieldErrors(err); fields != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fields})
		return
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, quiz.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, quiz.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, quiz.ErrConflict):
		status = http.StatusConflict
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = http.StatusText(status)
	}
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return false
	}
	if err := validation.Struct(v); err != nil {
		respondError(w, err)
		return false
	}
	return true
}

func actorFrom(r *http.Request) quiz.Actor {
	return quiz.Actor{
		ID:   authmw.SubjectFromContext(r.Context()),
		Role: rbac.RoleFromContext(r.Context()),
	}
}

func filterFrom(r *http.Request) quiz.Filter {
	q := r.URL.Query()
	return quiz.Filter{
		Subject:    q.Get("subject"),
		Difficulty: q.Get("difficulty"),
		Type:       q.Get("type"),
		Status:     q.Get("status"),
	}
}
