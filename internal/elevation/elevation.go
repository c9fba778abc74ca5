package elevation

import (
	"fmt"

	"github.com/rackdock/rackdock/internal/inventory"
)

// UnitPixels is the rendering height of one rack unit. Device slots carry
// UHeight * UnitPixels as a convenience hint for the elevation view.
const UnitPixels = 30

// SlotKind discriminates the two slot variants in an elevation sequence.
type SlotKind string

const (
	// SlotDevice is a slot holding a mounted device; it spans the
	// device's full unit range.
	SlotDevice SlotKind = "device"

	// SlotEmpty is a single unoccupied rack unit.
	SlotEmpty SlotKind = "empty"
)

// Slot is one entry in the top-to-bottom elevation sequence.
//
// Unit is the top-most rack unit the slot covers: for a device slot that
// is the top of the device's span, for an empty slot the unit itself.
type Slot struct {
	Unit   int      `json:"unit"`
	Kind   SlotKind `json:"kind"`
	Height int      `json:"height"`

	// Device is set only for device slots.
	Device *inventory.Device `json:"device,omitempty"`

	// PixelHeight is Height * UnitPixels, precomputed for the renderer.
	PixelHeight int `json:"pixel_height"`
}

// DiagnosticKind classifies a data-quality problem found during layout.
type DiagnosticKind string

const (
	// DiagInvalidRackHeight means the rack height was below 1; the
	// layout is empty.
	DiagInvalidRackHeight DiagnosticKind = "invalid_rack_height"

	// DiagInvalidDeviceHeight means a device had a non-positive u_height
	// and was excluded from placement.
	DiagInvalidDeviceHeight DiagnosticKind = "invalid_device_height"

	// DiagOutOfBounds means a device's span extends past the rack
	// boundary (u_position < 1 or top above the rack).
	DiagOutOfBounds DiagnosticKind = "out_of_bounds"

	// DiagOverlap means two devices claim the same top unit; the first
	// in input order was rendered.
	DiagOverlap DiagnosticKind = "overlap"

	// DiagOccluded means a unit is covered by a device span whose top
	// was consumed elsewhere; the unit was skipped without a slot.
	DiagOccluded DiagnosticKind = "occluded_unit"
)

// Diagnostic describes one data-quality problem. The engine never fails
// on bad geometry; it degrades to a best-effort layout and reports what
// it found so callers can surface or log it.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	DeviceID string         `json:"device_id,omitempty"`
	Unit     int            `json:"unit,omitempty"`
	Message  string         `json:"message"`
}

// Result is the outcome of a layout computation: the ordered slot
// sequence plus any diagnostics.
type Result struct {
	Slots       []Slot       `json:"slots"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Compute converts a rack height and its flat device list into the
// ordered, non-overlapping visual slot sequence for an elevation view.
//
// The sweep runs top-down from rackHeight to 1. At each unit:
//   - a device whose span tops out at the unit emits a device slot and
//     the cursor jumps past the device's whole span;
//   - a unit covered by some other span (overlap or out-of-bounds data)
//     is skipped without a slot and diagnosed;
//   - anything else emits a single-unit empty slot.
//
// Every well-formed unit therefore appears in exactly one emitted slot,
// slots are strictly descending by top unit, and the function terminates
// for any input. Compute is pure: same input, same output, no I/O.
func Compute(rackHeight int, devices []inventory.Device) Result {
	res := Result{Slots: []Slot{}}

	if rackHeight < 1 {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:    DiagInvalidRackHeight,
			Message: fmt.Sprintf("rack height %d is below 1U; nothing to lay out", rackHeight),
		})
		return res
	}

	// Index devices by the top unit of their span. First in input order
	// wins a contested top unit; later claimants are diagnosed.
	byTop := make(map[int]int, len(devices))
	// covered[u] is true when some placeable device's span includes u.
	covered := make([]bool, rackHeight+1)

	for i := range devices {
		d := &devices[i]

		if d.UHeight < 1 {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagInvalidDeviceHeight,
				DeviceID: d.ID,
				Message:  fmt.Sprintf("device %q has non-positive height %dU and was not placed", d.Name, d.UHeight),
			})
			continue
		}

		top := d.TopUnit()
		if d.UPosition < 1 || top > rackHeight {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagOutOfBounds,
				DeviceID: d.ID,
				Unit:     top,
				Message: fmt.Sprintf("device %q spans units %d-%d outside rack bounds 1-%d",
					d.Name, d.UPosition, top, rackHeight),
			})
		}

		if prev, taken := byTop[top]; taken {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagOverlap,
				DeviceID: d.ID,
				Unit:     top,
				Message: fmt.Sprintf("device %q shares top unit %d with %q; rendering the first",
					d.Name, top, devices[prev].Name),
			})
		} else if top >= 1 && top <= rackHeight {
			byTop[top] = i
		}

		for u := max(d.UPosition, 1); u <= min(top, rackHeight); u++ {
			covered[u] = true
		}
	}

	// Descending sweep. The cursor always moves down by at least one
	// unit per iteration, so termination holds for any input.
	for currentU := rackHeight; currentU >= 1; {
		if i, ok := byTop[currentU]; ok {
			d := &devices[i]
			res.Slots = append(res.Slots, Slot{
				Unit:        currentU,
				Kind:        SlotDevice,
				Height:      d.UHeight,
				Device:      d,
				PixelHeight: d.UHeight * UnitPixels,
			})
			currentU -= d.UHeight
			continue
		}

		if covered[currentU] {
			// Inside a span whose top was rendered elsewhere (or sits
			// beyond the rack). Occupied but unrenderable: no slot.
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    DiagOccluded,
				Unit:    currentU,
				Message: fmt.Sprintf("unit %d is covered by an overlapping device span", currentU),
			})
			currentU--
			continue
		}

		res.Slots = append(res.Slots, Slot{
			Unit:        currentU,
			Kind:        SlotEmpty,
			Height:      1,
			PixelHeight: UnitPixels,
		})
		currentU--
	}

	return res
}
