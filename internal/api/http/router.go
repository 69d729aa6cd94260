package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/auth"
	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

type Deps struct {
	Service            *quiz.Service
	Users              *auth.UserStore
	Auth               *authmw.AuthService
	Events             EventReader
	Blobs              storage.BlobStore
	EnableRegistration bool
	// RoleFromDB, when set, runs after token checks and replaces the role claim.
	RoleFromDB func(http.Handler) http.Handler
}

// Mount registers every API route on r.
func Mount(r chi.Router, d Deps) {
	r.Post("/auth/register", RegisterHandler(d.Users, d.Auth, d.EnableRegistration))
	r.Post("/auth/login", LoginHandler(d.Users, d.Auth))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))
		if d.RoleFromDB != nil {
			pr.Use(d.RoleFromDB)
		}

		pr.Get("/me", MeHandler(d.Users))

		pr.With(rbac.Require("course:create")).Post("/courses", CreateCourseHandler(d.Service))
		pr.With(rbac.Require("course:view")).Get("/courses", ListCoursesHandler(d.Service))
		pr.With(rbac.Require("course:enroll")).Post("/courses/{courseID}/students", EnrollStudentsHandler(d.Service))

		// Teacher
		pr.With(rbac.Require("question:create")).Post("/courses/{courseID}/questions", CreateQuestionHandler(d.Service))
		pr.With(rbac.Require("question:create")).Get("/courses/{courseID}/questions", ListQuestionsHandler(d.Service))
		pr.With(rbac.Require("question:create")).Get("/courses/{courseID}/stats", QuestionStatsHandler(d.Service))
		pr.With(rbac.Require("question:import")).Post("/courses/{courseID}/questions/import", ImportQuestionsHandler(d.Service, d.Blobs))
		pr.With(rbac.Require("question:import")).Get("/imports/{sourceID}", ImportSourceHandler(d.Blobs))
		pr.With(rbac.Require("question:delete_own")).Delete("/questions/{questionID}", DeleteQuestionHandler(d.Service))
		pr.With(rbac.Require("report:view")).Get("/courses/{courseID}/report", ReportHandler(d.Service))
		pr.With(rbac.Require("report:export")).Get("/courses/{courseID}/report.xlsx", ReportXLSXHandler(d.Service))

		// Student
		pr.With(rbac.Require("question:view")).Get("/courses/{courseID}/feed", FeedHandler(d.Service))
		pr.With(rbac.Require("answer:submit")).Post("/questions/{questionID}/answers", SubmitAnswerHandler(d.Service))
		pr.With(rbac.RequireAny("answer:view-own", "answer:view-all")).Get("/courses/{courseID}/answers", ListAnswersHandler(d.Service))
		pr.With(rbac.Require("course:view")).Get("/courses/{courseID}/changes", ChangesHandler(d.Service, d.Events))
	})
}
