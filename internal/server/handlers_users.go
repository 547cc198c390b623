package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"barberq/internal/api"
	"barberq/internal/roles"
	"barberq/internal/services"
	"barberq/internal/users"
)

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, roles.Admin) == nil {
		return
	}
	list, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.UsersResponse{Data: api.UsersFrom(list)})
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.Admin)
	if caller == nil {
		return
	}
	var req api.UpsertUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	role := roles.Role(req.Role)
	if req.Role != "" {
		parsed, ok := roles.Parse(req.Role)
		if !ok {
			s.writeError(w, services.Wrap(services.ErrInvalidInput, "server", "create user", "invalid role", nil))
			return
		}
		role = parsed
	}

	user, err := s.users.Create(r.Context(), users.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     role,
	}, caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.UserResponse{Data: api.UserFrom(user)})
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := s.requireRole(w, r, roles.Admin)
	if caller == nil {
		return
	}
	id, ok := s.pathID(w, params)
	if !ok {
		return
	}
	var req api.UpsertUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	fields := users.UserUpdate{}
	if req.Name != "" {
		fields.Name = &req.Name
	}
	if req.Email != "" {
		fields.Email = &req.Email
	}
	if req.Username != "" {
		fields.Username = &req.Username
	}
	if req.Password != "" {
		fields.Password = &req.Password
	}
	if req.Role != "" {
		role, ok := roles.Parse(req.Role)
		if !ok {
			s.writeError(w, services.Wrap(services.ErrInvalidInput, "server", "update user", "invalid role", nil))
			return
		}
		fields.Role = &role
	}

	user, err := s.users.Update(r.Context(), id, fields, caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.UserResponse{Data: api.UserFrom(user)})
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := s.requireRole(w, r, roles.Admin)
	if caller == nil {
		return
	}
	id, ok := s.pathID(w, params)
	if !ok {
		return
	}
	if err := s.users.Delete(r.Context(), id, caller.Role); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}
