package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PortRepository defines the interface for port persistence and the
// symmetric connection bookkeeping between ports.
type PortRepository interface {
	CreateBatch(ctx context.Context, deviceID string, names []string) ([]Port, error)
	Get(ctx context.Context, id string) (*Port, error)
	ListByDevice(ctx context.Context, deviceID string) ([]Port, error)
	Delete(ctx context.Context, id string) error

	// Connect links two ports symmetrically. Any existing connection on
	// either side is detached first.
	Connect(ctx context.Context, portID, targetPortID string) error

	// Disconnect clears both sides of a port's connection. Disconnecting
	// an unconnected port is a no-op.
	Disconnect(ctx context.Context, portID string) error
}

// SQLitePortRepository implements PortRepository using SQLite.
type SQLitePortRepository struct {
	db *sql.DB
}

// NewPortRepository creates a new SQLite-backed port repository.
func NewPortRepository(db *sql.DB) *SQLitePortRepository {
	return &SQLitePortRepository{db: db}
}

// CreateBatch inserts one port per name on the given device in a single
// transaction. Supports the "1,2,3" bulk-add flow from the UI.
func (r *SQLitePortRepository) CreateBatch(ctx context.Context, deviceID string, names []string) ([]Port, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := nowUTC()
	ports := make([]Port, 0, len(names))
	for _, name := range names {
		p := Port{
			ID:        GenerateID(),
			DeviceID:  deviceID,
			Name:      name,
			CreatedAt: parseTime(now),
			UpdatedAt: parseTime(now),
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ports (id, device_id, name, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.DeviceID, p.Name, now, now,
		); err != nil {
			if isForeignKeyViolation(err) {
				return nil, ErrDeviceNotFound
			}
			return nil, fmt.Errorf("inserting port %q: %w", name, err)
		}
		ports = append(ports, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing port batch: %w", err)
	}
	return ports, nil
}

// Get returns a single port by ID.
func (r *SQLitePortRepository) Get(ctx context.Context, id string) (*Port, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, device_id, name, connected_to_id, created_at, updated_at
		 FROM ports WHERE id = ?`, id)

	p, err := scanPort(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPortNotFound
		}
		return nil, fmt.Errorf("scanning port: %w", err)
	}
	return p, nil
}

// ListByDevice returns all ports on a device ordered by name.
func (r *SQLitePortRepository) ListByDevice(ctx context.Context, deviceID string) ([]Port, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_id, name, connected_to_id, created_at, updated_at
		 FROM ports WHERE device_id = ? ORDER BY name`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("querying ports: %w", err)
	}
	defer rows.Close()

	ports := []Port{}
	for rows.Next() {
		p, err := scanPort(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning port row: %w", err)
		}
		ports = append(ports, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ports: %w", err)
	}
	return ports, nil
}

// Delete removes a port. A connected peer's reference is nulled by the
// schema's ON DELETE SET NULL.
func (r *SQLitePortRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM ports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting port %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrPortNotFound
	}
	return nil
}

// Connect links two ports so each one's connected_to_id points at the
// other. Both updates happen in one transaction; existing connections on
// either port are detached first so no third port is left half-linked.
func (r *SQLitePortRepository) Connect(ctx context.Context, portID, targetPortID string) error {
	if portID == targetPortID {
		return ErrSelfConnection
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Verify both ends exist before mutating anything.
	for _, id := range []string{portID, targetPortID} {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM ports WHERE id = ?", id).Scan(&exists); err != nil {
			return fmt.Errorf("checking port %s: %w", id, err)
		}
		if exists == 0 {
			return ErrPortNotFound
		}
	}

	// Detach any previous peers of either endpoint.
	for _, id := range []string{portID, targetPortID} {
		if err := detachPeer(ctx, tx, id); err != nil {
			return err
		}
	}

	now := nowUTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE ports SET connected_to_id = ?, updated_at = ? WHERE id = ?",
		targetPortID, now, portID,
	); err != nil {
		return fmt.Errorf("connecting port %s: %w", portID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE ports SET connected_to_id = ?, updated_at = ? WHERE id = ?",
		portID, now, targetPortID,
	); err != nil {
		return fmt.Errorf("connecting port %s: %w", targetPortID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing connection: %w", err)
	}
	return nil
}

// Disconnect clears both sides of a port's connection.
func (r *SQLitePortRepository) Disconnect(ctx context.Context, portID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ports WHERE id = ?", portID).Scan(&exists); err != nil {
		return fmt.Errorf("checking port %s: %w", portID, err)
	}
	if exists == 0 {
		return ErrPortNotFound
	}

	if err := detachPeer(ctx, tx, portID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing disconnection: %w", err)
	}
	return nil
}

// detachPeer clears the connection on the given port and on whichever
// port currently points back at it.
func detachPeer(ctx context.Context, tx *sql.Tx, portID string) error {
	now := nowUTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE ports SET connected_to_id = NULL, updated_at = ? WHERE connected_to_id = ?",
		now, portID,
	); err != nil {
		return fmt.Errorf("detaching peers of port %s: %w", portID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE ports SET connected_to_id = NULL, updated_at = ? WHERE id = ? AND connected_to_id IS NOT NULL",
		now, portID,
	); err != nil {
		return fmt.Errorf("detaching port %s: %w", portID, err)
	}
	return nil
}

// scanPort scans a port from a Row or Rows cursor.
func scanPort(s scanner) (*Port, error) {
	var p Port
	var connectedTo sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&p.ID, &p.DeviceID, &p.Name, &connectedTo, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if connectedTo.Valid {
		p.ConnectedToID = &connectedTo.String
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
