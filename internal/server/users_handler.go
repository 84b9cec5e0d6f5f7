package server

import (
	"net/http"

	"github.com/jonathan/cv-matcher/internal/server/middleware"
)

// handleMe returns the authenticated user's account, including the
// current token balance.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.userService.GetUser(r.Context(), userID)
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// handleUpdatePassword changes the authenticated user's password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePassword(w, r, userID)
}
