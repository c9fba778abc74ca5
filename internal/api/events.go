package api

import (
	"time"

	"github.com/rackdock/rackdock/internal/infrastructure/mqtt"
)

// inventoryChannel is the WebSocket channel carrying all inventory
// change events. Clients subscribe once and filter client-side.
const inventoryChannel = "inventory.changed"

// inventoryEvent is the payload broadcast for every inventory mutation.
type inventoryEvent struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
}

// publishEvent fans an inventory mutation out to WebSocket subscribers
// and, when configured, the MQTT broker. Both paths are best-effort;
// a failed publish never fails the originating request.
func (s *Server) publishEvent(entityType, entityID, action string, details map[string]any) {
	event := inventoryEvent{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
	}

	if s.hub != nil {
		s.hub.Broadcast(inventoryChannel, event)
	}

	if s.mqtt != nil {
		err := s.mqtt.PublishEvent(mqtt.Event{
			EntityType: entityType,
			EntityID:   entityID,
			Action:     action,
			Details:    details,
			Timestamp:  time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("mqtt event publish failed",
				"entity_type", entityType,
				"action", action,
				"error", err,
			)
		}
	}
}
