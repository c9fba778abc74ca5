package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rackdock/rackdock/internal/inventory"
)

// createDeviceRequest is the request body for POST /devices.
type createDeviceRequest struct {
	RackID     string `json:"rack_id"`
	Name       string `json:"name"`
	DeviceType string `json:"device_type"`
	UPosition  int    `json:"u_position"`
	UHeight    int    `json:"u_height"`
}

// handleListDevices returns all devices, optionally filtered by rack.
//
// Query parameters:
//   - rack_id: restrict to a single rack (ordered top of rack first)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	var devices []inventory.Device
	var err error

	if rackID := r.URL.Query().Get("rack_id"); rackID != "" {
		devices, err = s.deviceRepo.ListByRack(r.Context(), rackID)
	} else {
		devices, err = s.deviceRepo.ListAll(r.Context())
	}
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleCreateDevice mounts a new device in a rack.
//
// Placement is validated locally (positive position and height) but not
// against other devices: overlap and rack-bounds violations are
// tolerated at write time and surfaced by the elevation view.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.RackID == "" {
		writeBadRequest(w, "rack_id is required")
		return
	}

	device := &inventory.Device{
		RackID:     req.RackID,
		Name:       req.Name,
		DeviceType: req.DeviceType,
		UPosition:  req.UPosition,
		UHeight:    req.UHeight,
	}
	if device.UHeight == 0 {
		device.UHeight = 1
	}

	if err := inventory.ValidateDevice(device); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.deviceRepo.Create(r.Context(), device); err != nil {
		if errors.Is(err, inventory.ErrRackNotFound) {
			writeNotFound(w, "rack not found")
			return
		}
		s.logger.Error("failed to create device", "name", device.Name, "error", err)
		writeInternalError(w, "failed to create device")
		return
	}

	s.auditLog("create", "device", device.ID, userIDFrom(r), map[string]any{
		"name":    device.Name,
		"rack_id": device.RackID,
	})
	s.publishEvent("device", device.ID, "create", map[string]any{"rack_id": device.RackID})

	writeJSON(w, http.StatusCreated, device)
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := s.deviceRepo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, inventory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("failed to get device", "error", err)
		writeInternalError(w, "failed to get device")
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// handleDeleteDevice removes a device and, via cascade, its ports.
// Connections into the deleted device's ports are cleared on the peers.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	device, err := s.deviceRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("failed to get device", "device_id", id, "error", err)
		writeInternalError(w, "failed to delete device")
		return
	}

	if err := s.deviceRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("failed to delete device", "device_id", id, "error", err)
		writeInternalError(w, "failed to delete device")
		return
	}

	s.auditLog("delete", "device", id, userIDFrom(r), map[string]any{"rack_id": device.RackID})
	s.publishEvent("device", id, "delete", map[string]any{"rack_id": device.RackID})

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
