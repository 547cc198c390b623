package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"barberq/internal/api"
	"barberq/internal/logging"
	"barberq/internal/queue"
	"barberq/internal/services"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", logging.Error(err))
	}
}

// writeError maps a tagged store error to its HTTP status and uniform body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Error(err))
	}
	s.writeErrorCode(w, status, errorCode(err), errorReason(status, err))
}

func (s *Server) writeErrorCode(w http.ResponseWriter, status int, code, reason string) {
	s.writeJSON(w, status, api.ErrorBody{Error: code, Reason: reason})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return "invalid_payload"
	case errors.Is(err, services.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, services.ErrForbidden):
		return "insufficient_role"
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrConflict):
		return "conflict"
	default:
		return "internal_error"
	}
}

// errorReason fills the reason field: the machine token for failures that
// have one, the error text otherwise. Internal detail never leaves on 5xx.
func errorReason(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return "internal error"
	}
	if errors.Is(err, queue.ErrInvalidOrder) {
		return "invalid_order"
	}
	return err.Error()
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return services.Wrap(services.ErrInvalidInput, "server", "decode payload", "malformed json", err)
	}
	return nil
}
