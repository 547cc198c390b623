package server

import (
	"net/http"

	"barberq/internal/api"
	"barberq/internal/roles"
	"barberq/internal/settings"
	"barberq/internal/storage"
)

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.Viewer)
	if caller == nil {
		return
	}
	shop, err := s.settings.Get(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := api.SettingsResponse{
		Settings:  api.ShopSettingsFrom(shop),
		UpdatedAt: storage.FormatTime(shop.UpdatedAt),
	}
	// The TV token is only disclosed to callers who could rotate it.
	if caller.Role.AtLeast(roles.Owner) {
		resp.TVToken = shop.TVToken
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.Owner)
	if caller == nil {
		return
	}
	var req api.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	shop, err := s.settings.Apply(r.Context(), settings.Update{
		ShopName:       req.ShopName,
		LogoURL:        req.LogoURL,
		Theme:          req.Theme,
		PollIntervalMS: req.PollIntervalMS,
	}, caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SettingsResponse{
		Settings:  api.ShopSettingsFrom(shop),
		TVToken:   shop.TVToken,
		UpdatedAt: storage.FormatTime(shop.UpdatedAt),
	})
}

func (s *Server) handleTVTokenRotate(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, roles.Owner)
	if caller == nil {
		return
	}
	shop, err := s.settings.RegenerateTVToken(r.Context(), caller.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("tv token rotated")
	s.writeJSON(w, http.StatusOK, api.TVTokenResponse{TVToken: shop.TVToken})
}
