package http

import (
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/auth"
	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	UserID      string `json:"user_id"`
}

// POST /auth/register
func RegisterHandler(users *auth.UserStore, authSvc *authmw.AuthService, enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			respondJSON(w, http.StatusForbidden, map[string]string{"error": "registration disabled"})
			return
		}
		var req auth.NewUser
		if !decodeJSON(w, r, &req) {
			return
		}
		u, err := users.Register(r.Context(), req)
		if errors.Is(err, auth.ErrEmailTaken) {
			respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}
		tok, err := authSvc.IssueJWT(u.ID, u.Role)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, tokenResponse{AccessToken: tok, Role: u.Role, UserID: u.ID})
	}
}

// POST /auth/login  { "email": "...", "password": "..." }
func LoginHandler(users *auth.UserStore, authSvc *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email" validate:"required"`
			Password string `json:"password" validate:"required"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		u, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if errors.Is(err, auth.ErrBadCredentials) {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}
		tok, err := authSvc.IssueJWT(u.ID, u.Role)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, tokenResponse{AccessToken: tok, Role: u.Role, UserID: u.ID})
	}
}

// GET /me
func MeHandler(users *auth.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.Get(r.Context(), actorFrom(r).ID)
		if errors.Is(err, auth.ErrUserNotFound) {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}
