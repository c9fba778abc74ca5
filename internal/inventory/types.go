package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Rack represents a physical equipment rack.
// Units are indexed 1..Height from the bottom.
type Rack struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultRackHeight is the conventional full-height rack size in units.
const DefaultRackHeight = 42

// Device represents a piece of equipment mounted in a rack.
//
// UPosition is the bottom-most unit the device occupies (1-based) and
// UHeight the number of contiguous units it spans upward, so the device
// occupies the closed range [UPosition, UPosition+UHeight-1].
type Device struct {
	ID         string    `json:"id"`
	RackID     string    `json:"rack_id"`
	Name       string    `json:"name"`
	DeviceType string    `json:"device_type"`
	UPosition  int       `json:"u_position"`
	UHeight    int       `json:"u_height"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TopUnit returns the top-most rack unit of the device's span.
func (d *Device) TopUnit() int {
	return d.UPosition + d.UHeight - 1
}

// Port represents a network or power port on a device.
//
// Connections are a symmetric adjacency: when port A is connected to
// port B, each row's ConnectedToID points at the other. The repository
// maintains both sides atomically.
type Port struct {
	ID            string    `json:"id"`
	DeviceID      string    `json:"device_id"`
	Name          string    `json:"name"`
	ConnectedToID *string   `json:"connected_to_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GenerateID creates a new UUID for an inventory entity.
func GenerateID() string {
	return uuid.New().String()
}
