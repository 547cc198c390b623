package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"barberq/internal/api"
	"barberq/internal/logging"
	"barberq/internal/queue"
	"barberq/internal/roles"
)

// handleQueueList serves the read projection. Authenticated callers get full
// access; a valid TV token grants read-only access for the public display.
func (s *Server) handleQueueList(w http.ResponseWriter, r *http.Request) {
	access := "full"
	caller, err := s.resolveIdentity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if caller == nil {
		ok, err := s.settings.MatchesTVToken(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		if !ok {
			s.writeErrorCode(w, http.StatusForbidden, "forbidden", "invalid_tv_token")
			return
		}
		access = "readonly"
	}

	entries, err := s.queue.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	shop, err := s.settings.Get(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.QueueResponse{
		Data:           api.BarbersFromEntries(entries),
		ServerTime:     time.Now().UTC().Format(time.RFC3339),
		PollIntervalMS: shop.PollIntervalMS,
		Access:         access,
		Settings:       api.ShopSettingsFrom(shop),
	})
}

func (s *Server) handleStatusChange(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.FrontDesk)
	if caller == nil {
		return
	}
	var req api.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	entry, err := s.queue.ApplyTransition(r.Context(), req.BarberID, queue.Status(req.Status), caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("status change",
		logging.Int64("barber_id", entry.ID),
		logging.String("status", string(entry.Status)),
		logging.String("actor", caller.Name))
	s.writeJSON(w, http.StatusOK, api.EntryResponse{Data: api.BarberFromEntry(entry)})
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.FrontDesk)
	if caller == nil {
		return
	}
	var req api.CycleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	entry, err := s.queue.CycleStatus(r.Context(), req.BarberID, caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.EntryResponse{Data: api.BarberFromEntry(entry)})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.FrontDesk)
	if caller == nil {
		return
	}
	var req api.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if _, err := s.queue.Reorder(r.Context(), req.Order, caller.Role); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("queue reordered",
		logging.Int("count", len(req.Order)),
		logging.String("actor", caller.Name))
	s.writeJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}

func (s *Server) handleBarberCreate(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.Admin)
	if caller == nil {
		return
	}
	var req api.CreateBarberRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	entry, err := s.queue.Create(r.Context(), req.Name, queue.Status(req.Status), caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.EntryResponse{Data: api.BarberFromEntry(entry)})
}

func (s *Server) handleBarberUpdate(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := s.requireRole(w, r, roles.Admin)
	if caller == nil {
		return
	}
	id, ok := s.pathID(w, params)
	if !ok {
		return
	}
	var req api.UpdateBarberRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	fields := queue.EntryUpdate{Name: req.Name}
	if req.Status != nil {
		status := queue.Status(*req.Status)
		fields.Status = &status
	}
	entry, err := s.queue.Update(r.Context(), id, fields, caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.EntryResponse{Data: api.BarberFromEntry(entry)})
}

func (s *Server) handleBarberDelete(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	caller := s.requireRole(w, r, roles.Admin)
	if caller == nil {
		return
	}
	id, ok := s.pathID(w, params)
	if !ok {
		return
	}
	if err := s.queue.Delete(r.Context(), id, caller.Role); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}

func (s *Server) pathID(w http.ResponseWriter, params httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeErrorCode(w, http.StatusBadRequest, "invalid_payload", "invalid id")
		return 0, false
	}
	return id, true
}
