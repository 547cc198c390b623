package server

import (
	"net/http"

	"barberq/internal/api"
	"barberq/internal/logging"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.logins.allow(clientAddr(r)) {
		s.writeErrorCode(w, http.StatusTooManyRequests, "rate_limited", "too many login attempts")
		return
	}

	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn("login rejected",
			logging.String("identifier", req.Username),
			logging.String("remote", clientAddr(r)))
		s.writeError(w, err)
		return
	}

	token, expires, err := s.sessions.issue(user.ID, user.Name, user.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, token, expires)
	s.logger.Info("login",
		logging.String("user", user.Email),
		logging.String("role", user.Role.String()))
	s.writeJSON(w, http.StatusOK, api.SessionResponse{User: api.UserFrom(user)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	s.writeJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	caller, err := s.resolveIdentity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if caller == nil {
		s.writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	if caller.Source == "api_token" {
		s.writeJSON(w, http.StatusOK, api.SessionResponse{User: api.User{
			Name: caller.Name,
			Role: caller.Role.String(),
		}})
		return
	}
	user, err := s.users.GetByID(r.Context(), caller.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionResponse{User: api.UserFrom(user)})
}
