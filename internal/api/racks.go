package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rackdock/rackdock/internal/elevation"
	"github.com/rackdock/rackdock/internal/inventory"
)

// createRackRequest is the request body for POST /racks.
type createRackRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Height   int    `json:"height"`
}

// elevationResponse is the response body for GET /racks/{id}/elevation.
type elevationResponse struct {
	Rack        *inventory.Rack        `json:"rack"`
	Slots       []elevation.Slot       `json:"slots"`
	UnitPixels  int                    `json:"unit_pixels"`
	Diagnostics []elevation.Diagnostic `json:"diagnostics,omitempty"`
}

// handleListRacks returns all racks ordered by name.
func (s *Server) handleListRacks(w http.ResponseWriter, r *http.Request) {
	racks, err := s.rackRepo.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list racks", "error", err)
		writeInternalError(w, "failed to list racks")
		return
	}
	writeJSON(w, http.StatusOK, racks)
}

// handleCreateRack creates a new rack. Height defaults to 42U when omitted.
func (s *Server) handleCreateRack(w http.ResponseWriter, r *http.Request) {
	var req createRackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rack := &inventory.Rack{
		Name:     req.Name,
		Location: req.Location,
		Height:   req.Height,
	}
	if rack.Height == 0 {
		rack.Height = inventory.DefaultRackHeight
	}

	if err := inventory.ValidateRack(rack); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.rackRepo.Create(r.Context(), rack); err != nil {
		s.logger.Error("failed to create rack", "name", rack.Name, "error", err)
		writeInternalError(w, "failed to create rack")
		return
	}

	s.auditLog("create", "rack", rack.ID, userIDFrom(r), map[string]any{"name": rack.Name})
	s.publishEvent("rack", rack.ID, "create", map[string]any{"name": rack.Name})

	writeJSON(w, http.StatusCreated, rack)
}

// handleGetRack returns a single rack by ID.
func (s *Server) handleGetRack(w http.ResponseWriter, r *http.Request) {
	rack, err := s.rackRepo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, inventory.ErrRackNotFound) {
			writeNotFound(w, "rack not found")
			return
		}
		s.logger.Error("failed to get rack", "error", err)
		writeInternalError(w, "failed to get rack")
		return
	}
	writeJSON(w, http.StatusOK, rack)
}

// handleDeleteRack removes a rack and, via cascade, its devices and ports.
func (s *Server) handleDeleteRack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.rackRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrRackNotFound) {
			writeNotFound(w, "rack not found")
			return
		}
		s.logger.Error("failed to delete rack", "rack_id", id, "error", err)
		writeInternalError(w, "failed to delete rack")
		return
	}

	s.auditLog("delete", "rack", id, userIDFrom(r), nil)
	s.publishEvent("rack", id, "delete", nil)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRackElevation computes the rack's front-face layout.
//
// The layout is derived on every request from current device rows and
// never persisted. Bad geometry (overlaps, out-of-bounds devices) is
// reported in the diagnostics list instead of failing the request.
func (s *Server) handleRackElevation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rack, err := s.rackRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrRackNotFound) {
			writeNotFound(w, "rack not found")
			return
		}
		s.logger.Error("failed to get rack", "rack_id", id, "error", err)
		writeInternalError(w, "failed to get rack")
		return
	}

	devices, err := s.deviceRepo.ListByRack(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to list rack devices", "rack_id", id, "error", err)
		writeInternalError(w, "failed to list rack devices")
		return
	}

	result := elevation.Compute(rack.Height, devices)
	for _, d := range result.Diagnostics {
		s.logger.Warn("elevation diagnostic",
			"rack_id", id,
			"kind", string(d.Kind),
			"device_id", d.DeviceID,
			"detail", d.Message,
		)
	}

	writeJSON(w, http.StatusOK, elevationResponse{
		Rack:        rack,
		Slots:       result.Slots,
		UnitPixels:  elevation.UnitPixels,
		Diagnostics: result.Diagnostics,
	})
}

// handleListRackDevices returns the devices mounted in a rack, top first.
func (s *Server) handleListRackDevices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.rackRepo.Get(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrRackNotFound) {
			writeNotFound(w, "rack not found")
			return
		}
		s.logger.Error("failed to get rack", "rack_id", id, "error", err)
		writeInternalError(w, "failed to get rack")
		return
	}

	devices, err := s.deviceRepo.ListByRack(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to list rack devices", "rack_id", id, "error", err)
		writeInternalError(w, "failed to list rack devices")
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// userIDFrom returns the authenticated user ID for audit attribution,
// or empty string on unauthenticated routes.
func userIDFrom(r *http.Request) string {
	if claims := claimsFromContext(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}
