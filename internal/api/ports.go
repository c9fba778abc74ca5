package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rackdock/rackdock/internal/inventory"
)

// createPortsRequest is the request body for POST /devices/{id}/ports.
//
// Names is a comma-separated list so a whole switch faceplate can be
// entered in one request: "Gi1/0/1, Gi1/0/2, Gi1/0/3".
type createPortsRequest struct {
	Names string `json:"names"`
}

// connectPortRequest is the request body for POST /ports/{id}/connect.
type connectPortRequest struct {
	TargetPortID string `json:"target_port_id"`
}

// handleListDevicePorts returns a device's ports ordered by name.
func (s *Server) handleListDevicePorts(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	if _, err := s.deviceRepo.Get(r.Context(), deviceID); err != nil {
		if errors.Is(err, inventory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("failed to get device", "device_id", deviceID, "error", err)
		writeInternalError(w, "failed to list ports")
		return
	}

	ports, err := s.portRepo.ListByDevice(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("failed to list ports", "device_id", deviceID, "error", err)
		writeInternalError(w, "failed to list ports")
		return
	}
	writeJSON(w, http.StatusOK, ports)
}

// handleCreatePorts creates a batch of ports on a device from a
// comma-separated name list.
func (s *Server) handleCreatePorts(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	var req createPortsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	names := inventory.SplitPortNames(req.Names)
	if len(names) == 0 {
		writeBadRequest(w, "at least one port name is required")
		return
	}
	for _, name := range names {
		if err := inventory.ValidateName(name); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	ports, err := s.portRepo.CreateBatch(r.Context(), deviceID, names)
	if err != nil {
		if errors.Is(err, inventory.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("failed to create ports", "device_id", deviceID, "error", err)
		writeInternalError(w, "failed to create ports")
		return
	}

	s.auditLog("create", "port", deviceID, userIDFrom(r), map[string]any{
		"device_id": deviceID,
		"count":     len(ports),
	})
	s.publishEvent("port", deviceID, "create", map[string]any{"count": len(ports)})

	writeJSON(w, http.StatusCreated, ports)
}

// handleGetPort returns a single port by ID.
func (s *Server) handleGetPort(w http.ResponseWriter, r *http.Request) {
	port, err := s.portRepo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, inventory.ErrPortNotFound) {
			writeNotFound(w, "port not found")
			return
		}
		s.logger.Error("failed to get port", "error", err)
		writeInternalError(w, "failed to get port")
		return
	}
	writeJSON(w, http.StatusOK, port)
}

// handleDeletePort removes a port. A connected peer survives with its
// connection reference cleared.
func (s *Server) handleDeletePort(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.portRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrPortNotFound) {
			writeNotFound(w, "port not found")
			return
		}
		s.logger.Error("failed to delete port", "port_id", id, "error", err)
		writeInternalError(w, "failed to delete port")
		return
	}

	s.auditLog("delete", "port", id, userIDFrom(r), nil)
	s.publishEvent("port", id, "delete", nil)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleConnectPort links two ports symmetrically. Existing connections
// on either end are detached first, so a patch never leaves a dangling
// half-link.
func (s *Server) handleConnectPort(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req connectPortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.TargetPortID == "" {
		writeBadRequest(w, "target_port_id is required")
		return
	}

	if err := s.portRepo.Connect(r.Context(), id, req.TargetPortID); err != nil {
		switch {
		case errors.Is(err, inventory.ErrSelfConnection):
			writeConflict(w, "a port cannot be connected to itself")
		case errors.Is(err, inventory.ErrPortNotFound):
			writeNotFound(w, "port not found")
		default:
			s.logger.Error("failed to connect ports", "port_id", id, "target", req.TargetPortID, "error", err)
			writeInternalError(w, "failed to connect ports")
		}
		return
	}

	s.auditLog("connect", "port", id, userIDFrom(r), map[string]any{"target_port_id": req.TargetPortID})
	s.publishEvent("port", id, "connect", map[string]any{"target_port_id": req.TargetPortID})

	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// handleDisconnectPort clears a port's connection on both ends.
// Disconnecting an unconnected port succeeds as a no-op.
func (s *Server) handleDisconnectPort(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.portRepo.Disconnect(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrPortNotFound) {
			writeNotFound(w, "port not found")
			return
		}
		s.logger.Error("failed to disconnect port", "port_id", id, "error", err)
		writeInternalError(w, "failed to disconnect port")
		return
	}

	s.auditLog("disconnect", "port", id, userIDFrom(r), nil)
	s.publishEvent("port", id, "disconnect", nil)

	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}
