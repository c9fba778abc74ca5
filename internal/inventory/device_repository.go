package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DeviceRepository defines the interface for mounted-device persistence.
type DeviceRepository interface {
	Create(ctx context.Context, device *Device) error
	Get(ctx context.Context, id string) (*Device, error)
	ListByRack(ctx context.Context, rackID string) ([]Device, error)
	ListAll(ctx context.Context) ([]Device, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteDeviceRepository implements DeviceRepository using SQLite.
type SQLiteDeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new SQLite-backed device repository.
func NewDeviceRepository(db *sql.DB) *SQLiteDeviceRepository {
	return &SQLiteDeviceRepository{db: db}
}

// Create inserts a new device. The ID is generated if empty. The rack
// must exist; a missing rack surfaces as a foreign key violation mapped
// to ErrRackNotFound.
func (r *SQLiteDeviceRepository) Create(ctx context.Context, device *Device) error {
	if device.ID == "" {
		device.ID = GenerateID()
	}

	now := nowUTC()
	device.CreatedAt = parseTime(now)
	device.UpdatedAt = device.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, rack_id, name, device_type, u_position, u_height, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		device.ID, device.RackID, device.Name, device.DeviceType,
		device.UPosition, device.UHeight, now, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrRackNotFound
		}
		return fmt.Errorf("inserting device %s: %w", device.ID, err)
	}
	return nil
}

// Get returns a single device by ID.
func (r *SQLiteDeviceRepository) Get(ctx context.Context, id string) (*Device, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, rack_id, name, device_type, u_position, u_height, created_at, updated_at
		 FROM devices WHERE id = ?`, id)

	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("scanning device: %w", err)
	}
	return d, nil
}

// ListByRack returns all devices mounted in a rack, top of rack first
// (descending u_position), matching elevation reading order.
func (r *SQLiteDeviceRepository) ListByRack(ctx context.Context, rackID string) ([]Device, error) {
	return r.queryDevices(ctx,
		`SELECT id, rack_id, name, device_type, u_position, u_height, created_at, updated_at
		 FROM devices WHERE rack_id = ? ORDER BY u_position DESC, created_at`, rackID)
}

// ListAll returns every device across all racks, for connection target
// listings, ordered by name.
func (r *SQLiteDeviceRepository) ListAll(ctx context.Context) ([]Device, error) {
	return r.queryDevices(ctx,
		`SELECT id, rack_id, name, device_type, u_position, u_height, created_at, updated_at
		 FROM devices ORDER BY name`)
}

// Delete removes a device. Its ports are removed by ON DELETE CASCADE,
// and any surviving peer ports have their connection reference nulled.
func (r *SQLiteDeviceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// queryDevices executes a query and returns a slice of Device.
func (r *SQLiteDeviceRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	devices := []Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// scanDevice scans a device from a Row or Rows cursor.
func scanDevice(s scanner) (*Device, error) {
	var d Device
	var createdAt, updatedAt string

	err := s.Scan(&d.ID, &d.RackID, &d.Name, &d.DeviceType,
		&d.UPosition, &d.UHeight, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY
// constraint failure.
func isForeignKeyViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "FOREIGN KEY constraint failed") ||
		strings.Contains(err.Error(), "foreign key constraint"))
}
