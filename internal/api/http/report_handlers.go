package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/report"
)

// GET /courses/{courseID}/report
func ReportHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, qs, as, err := svc.CourseResults(r.Context(), actorFrom(r), chi.URLParam(r, "courseID"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, report.Summarize(c.ID, qs, as))
	}
}

// GET /courses/{courseID}/report.xlsx
func ReportXLSXHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, qs, as, err := svc.CourseResults(r.Context(), actorFrom(r), chi.URLParam(r, "courseID"))
		if err != nil {
			respondError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := report.WriteAnswersXLSX(&buf, qs, as, report.Summarize(c.ID, qs, as)); err != nil {
			respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.ID+"-answers.xlsx"))
		_, _ = buf.WriteTo(w)
	}
}
