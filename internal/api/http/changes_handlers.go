package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

// EventReader is the read side of the change log.
type EventReader interface {
	Since(ctx context.Context, key string, after int64, limit int) ([]syncx.Event, error)
}

// GET /courses/{courseID}/changes?since=N&limit=M
//
// Clients poll with the "next" value of the previous response. Students only
// see answer events about themselves.
func ChangesHandler(svc *quiz.Service, events EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r)
		courseID := chi.URLParam(r, "courseID")
		owner, err := svc.CanWatch(r.Context(), actor, courseID)
		if err != nil {
			respondError(w, err)
			return
		}
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		evs, err := events.Since(r.Context(), courseID, since, limit)
		if err != nil {
			respondError(w, err)
			return
		}
		next := since
		out := make([]syncx.Event, 0, len(evs))
		for _, e := range evs {
			next = e.Seq
			if !owner && e.Type == quiz.EventAnswerSubmitted && !aboutStudent(e, actor.ID) {
				continue
			}
			out = append(out, e)
		}
		respondJSON(w, http.StatusOK, map[string]any{"events": out, "next": next})
	}
}

func aboutStudent(e syncx.Event, studentID string) bool {
	var data struct {
		StudentID string `json:"student_id"`
	}
	_ = json.Unmarshal([]byte(e.DataJSON), &data)
	return data.StudentID == studentID
}
