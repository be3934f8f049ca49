package http

import (
	"net/http"

	"ledgerly/internal/auth"
	"ledgerly/internal/log"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string       `json:"token"`
	Identity identityJSON `json:"identity"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	identity, err := s.authSvc.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, Identity: toIdentityJSON(identity)})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	identity, err := s.authSvc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Populate the session up front so the first dashboard read is warm.
	sess := s.sessions.Get(identity)
	if err := sess.RefreshAll(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "Initial session refresh failed",
			log.FieldOperation, log.OpSignIn,
			log.FieldUserID, identity.ID,
			log.FieldError, err)
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Identity: toIdentityJSON(identity)})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	s.sessions.Drop(identity.ID)
	s.authSvc.SignOut(r.Context())
	writeJSON(w, http.StatusNoContent, nil)
}
