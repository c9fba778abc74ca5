package inventory

import (
	"fmt"
	"strings"
)

// Validation constants.
const (
	maxNameLength     = 100
	maxLocationLength = 200
	maxTypeLength     = 50

	// maxRackHeight caps rack height at something physically plausible.
	// The tallest commercial racks are around 58U; 100 leaves headroom
	// without letting a typo allocate a million-slot elevation view.
	maxRackHeight = 100
)

// ValidateName checks that an entity name is non-empty and bounded.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateRack validates a Rack before persistence.
func ValidateRack(r *Rack) error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if len(r.Location) > maxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidName, maxLocationLength)
	}
	if r.Height < 1 {
		return fmt.Errorf("%w: height must be at least 1U", ErrInvalidHeight)
	}
	if r.Height > maxRackHeight {
		return fmt.Errorf("%w: height exceeds %dU", ErrInvalidHeight, maxRackHeight)
	}
	return nil
}

// ValidateDevice validates a Device before persistence.
//
// Only local geometry is checked (positive position and height). Overlap
// with other devices and rack-bounds fit are deliberately not enforced
// here: historical data contains both, and the elevation engine renders
// them best-effort with diagnostics instead of refusing the write.
func ValidateDevice(d *Device) error {
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if d.DeviceType == "" {
		return fmt.Errorf("%w: device_type cannot be empty", ErrInvalidName)
	}
	if len(d.DeviceType) > maxTypeLength {
		return fmt.Errorf("%w: device_type exceeds %d characters", ErrInvalidName, maxTypeLength)
	}
	if d.UPosition < 1 {
		return fmt.Errorf("%w: u_position must be at least 1", ErrInvalidPlacement)
	}
	if d.UHeight < 1 {
		return fmt.Errorf("%w: u_height must be at least 1", ErrInvalidPlacement)
	}
	return nil
}

// ValidatePort validates a Port before persistence.
func ValidatePort(p *Port) error {
	return ValidateName(p.Name)
}

// SplitPortNames parses a comma-separated port name list into individual
// trimmed names, dropping empties. "Gi1/0/1, Gi1/0/2," yields two names.
func SplitPortNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}
